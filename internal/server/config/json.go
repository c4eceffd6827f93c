package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/facevault/internal/flagx"
	"github.com/dmitrijs2005/facevault/internal/timex"
)

// JsonConfig is the DTO for the optional JSON configuration file. It uses
// timex.Duration for interval fields, which accepts both string values
// such as "15m" and integer nanoseconds. After unmarshalling, its fields
// are copied into the runtime Config which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	StoreBackend                 string         `json:"store_backend"`
	StorePath                    string         `json:"store_path"`
	DatabaseDSN                  string         `json:"database_dsn"`
	KeyStoreBackend              string         `json:"keystore_backend"`
	KeyPairPath                  string         `json:"keypair_path"`
	KeyringService               string         `json:"keyring_service"`
	SecretKey                    string         `json:"secret_key"`
	SessionTokenValidityDuration timex.Duration `json:"session_token_validity_duration"`
	MatchThreshold               float64        `json:"match_threshold"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into config. If no flag is given, nothing is loaded.
// An unreadable or invalid file panics: starting a vault on a half-read
// configuration is worse than not starting.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.StoreBackend != "" {
		config.StoreBackend = c.StoreBackend
	}
	if c.StorePath != "" {
		config.StorePath = c.StorePath
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.KeyStoreBackend != "" {
		config.KeyStoreBackend = c.KeyStoreBackend
	}
	if c.KeyPairPath != "" {
		config.KeyPairPath = c.KeyPairPath
	}
	if c.KeyringService != "" {
		config.KeyringService = c.KeyringService
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.SessionTokenValidityDuration.Duration != 0 {
		config.SessionTokenValidityDuration = c.SessionTokenValidityDuration.Duration
	}
	if c.MatchThreshold != 0 {
		config.MatchThreshold = c.MatchThreshold
	}
}
