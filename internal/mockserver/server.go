package mockserver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/tpsctl/internal/logging"
)

// ShutdownTimeout bounds how long Start waits for in-flight requests on exit
const ShutdownTimeout = 10 * time.Second

// Config holds the server configuration
type Config struct {
	Host         string
	Port         int
	CertPath     string // Path to certificate file (optional if GenerateCert is true)
	KeyPath      string // Path to private key file (optional if GenerateCert is true)
	GenerateCert bool   // If true, serve HTTPS with an in-memory self-signed certificate
	Users        map[string]string
	Seed         bool // Load the sample entries on start
}

// Addr returns host:port
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

// TLS reports whether the server serves HTTPS
func (c *Config) TLS() bool {
	return c.GenerateCert || c.CertPath != ""
}

// Server is a stand-in TPS REST server for development and tests
type Server struct {
	config     *Config
	store      *Store
	tlsConfig  *tls.Config
	httpServer *http.Server
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	var tlsConfig *tls.Config
	var err error

	switch {
	case config.GenerateCert:
		logging.Info("Generating self-signed server certificate", zap.String("host", config.Host))
		tlsConfig, err = NewSelfSignedTLSConfig(config.Host)
		if err != nil {
			return nil, fmt.Errorf("failed to generate certificate: %w", err)
		}
	case config.CertPath != "":
		tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	store := NewStore()
	if config.Seed {
		SeedStore(store)
	}

	s := &Server{
		config:    config,
		store:     store,
		tlsConfig: tlsConfig,
	}
	s.httpServer = &http.Server{
		Addr:              config.Addr(),
		Handler:           NewRouter(store, config.Users),
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Store returns the backing store
func (s *Server) Store() *Store {
	return s.store
}

// Handler returns the HTTP handler, for use with httptest
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// URL returns the base URL clients should use
func (s *Server) URL() string {
	scheme := "http"
	if s.config.TLS() {
		scheme = "https"
	}
	return scheme + "://" + s.config.Addr()
}

// Start serves until ctx is cancelled or an interrupt arrives
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr(), err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled or an
// interrupt arrives
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}

	logging.Info("Mock TPS server listening",
		zap.String("addr", listener.Addr().String()),
		zap.Bool("tls", s.tlsConfig != nil),
		zap.Bool("auth", len(s.config.Users) > 0),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown requested, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		logging.Warn("Shutdown timeout, forcing close")
		err = s.httpServer.Close()
	}
	logging.Sync()
	return err
}
