// Package server initializes and runs the FaceVault server: it wires the
// configured credential store and keypair store into the vault service,
// starts the HTTP API, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/facevault/internal/logging"
	"github.com/dmitrijs2005/facevault/internal/server/config"
	"github.com/dmitrijs2005/facevault/internal/server/httpapi"
	"github.com/dmitrijs2005/facevault/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/facevault/internal/vault"
	"github.com/dmitrijs2005/facevault/internal/vault/keys"
)

type App struct {
	config *config.Config
	logger logging.Logger
	vault  *vault.Service
}

func NewApp(c *config.Config) (*App, error) {
	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	repo, err := newRepository(c)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	keyStore, err := newKeyStore(c)
	if err != nil {
		return nil, fmt.Errorf("keystore init error: %w", err)
	}

	v := vault.NewService(repo, keys.NewManager(keyStore), logger,
		vault.WithThreshold(c.MatchThreshold))

	return &App{config: c, logger: logger, vault: v}, nil
}

func newRepository(c *config.Config) (credentials.Repository, error) {
	switch c.StoreBackend {
	case config.StoreBackendFile:
		return credentials.NewFileRepository(c.StorePath)
	case config.StoreBackendSQLite:
		return credentials.OpenSQLite(c.StorePath)
	case config.StoreBackendPostgres:
		return credentials.OpenPostgres(c.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
}

func newKeyStore(c *config.Config) (keys.Store, error) {
	switch c.KeyStoreBackend {
	case config.KeyStoreBackendFile:
		return keys.NewFileStore(c.KeyPairPath), nil
	case config.KeyStoreBackendKeyring:
		return keys.NewKeyringStore(c.KeyringService)
	default:
		return nil, fmt.Errorf("unknown keystore backend %q", c.KeyStoreBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.vault,
		app.config.SecretKey, app.config.SessionTokenValidityDuration)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
