package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/facevault/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-b string   credential store backend: file, sqlite, postgres
//	-f string   data file path (file/sqlite backends)
//	-d string   PostgreSQL DSN (postgres backend)
//	-k string   keypair store backend: file, keyring
//	-p string   keypair file path (file backend)
//	-n string   keyring service name (keyring backend)
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//	-m float    cosine-similarity acceptance threshold
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-f", "-d", "-k", "-p", "-n", "-s", "-t", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.StoreBackend, "b", config.StoreBackend, "credential store backend (file|sqlite|postgres)")
	fs.StringVar(&config.StorePath, "f", config.StorePath, "credential store data file")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.KeyStoreBackend, "k", config.KeyStoreBackend, "keypair store backend (file|keyring)")
	fs.StringVar(&config.KeyPairPath, "p", config.KeyPairPath, "keypair file path")
	fs.StringVar(&config.KeyringService, "n", config.KeyringService, "keyring service name")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionTokenValidityDuration := fs.Int("t", int(config.SessionTokenValidityDuration.Minutes()), "session_token_validity_duration (in minutes)")
	fs.Float64Var(&config.MatchThreshold, "m", config.MatchThreshold, "similarity acceptance threshold")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTokenValidityDuration = time.Duration(*sessionTokenValidityDuration) * time.Minute
}
