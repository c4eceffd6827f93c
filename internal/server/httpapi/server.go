// Package httpapi is the request layer over the vault: a small JSON API
// that validates requests, invokes the vault operations, and maps the
// vault's error kinds onto HTTP status codes. No vault semantics live
// here.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/facevault/internal/logging"
	"github.com/dmitrijs2005/facevault/internal/vault"
)

type Server struct {
	address       string
	vault         *vault.Service
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewServer(address string, l logging.Logger, v *vault.Service, secretKey string, tokenValidity time.Duration) *Server {
	return &Server{
		address:       address,
		vault:         v,
		logger:        l.With("module", "http_server"),
		jwtSecret:     []byte(secretKey),
		tokenValidity: tokenValidity,
	}
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Routes builds the full API handler, middleware included.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/users", s.handleEnroll)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("GET /api/users", s.handleListUsers)
	mux.HandleFunc("GET /api/users/count", s.handleCount)
	mux.HandleFunc("DELETE /api/users/{username}", s.handleDeleteUser)
	mux.HandleFunc("GET /api/ping", s.handlePing)

	return s.withRequestID(s.withLogging(mux))
}
