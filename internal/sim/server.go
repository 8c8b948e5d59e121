// Package sim HTTP server for the ledger simulator.
// This server exposes the ledger submission API over REST, allowing the
// engine and CLI tools to run against a local service with real wire
// semantics.
package sim

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/crestline-dev/relay/internal/logging"
	"github.com/gin-gonic/gin"
)

// Server is the simulator API server: a gin router in front of the in-memory
// ledger state machine.
type Server struct {
	ledger     *Ledger
	httpServer *http.Server
	bindAddr   string
	bindPort   int
}

// NewServer creates a new simulator API server instance.
func NewServer(config *Config) *Server {
	// Set Gin to release mode for production
	gin.SetMode(gin.ReleaseMode)

	return &Server{
		ledger:   NewLedger(config),
		bindAddr: config.BindAddr,
		bindPort: config.BindPort,
	}
}

// Handler returns the fully routed HTTP handler without binding a socket.
// Used by tests that mount the simulator behind httptest.
func (s *Server) Handler() http.Handler {
	return s.newRouter()
}

// newRouter builds the gin engine with middleware and routes.
func (s *Server) newRouter() *gin.Engine {
	router := gin.New()

	// Configure Gin logging only if not already configured by CLI tools
	if !logging.IsConfiguredByCLI() {
		gin.DefaultWriter = logging.NewLevelWriter("INFO", "gin")
		gin.DefaultErrorWriter = logging.NewLevelWriter("ERROR", "gin")
	}

	router.Use(s.loggingMiddleware())
	router.Use(gin.Recovery())

	s.setupRoutes(router)
	return router
}

// Start starts the simulator API server.
func (s *Server) Start() error {
	logging.Info("Starting ledger simulator on %s:%d", s.bindAddr, s.bindPort)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.bindAddr, s.bindPort),
		Handler: s.newRouter(),
		// Timeouts for production
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Test binding first to catch errors immediately
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind to %s: %w", s.httpServer.Addr, err)
	}
	listener.Close() // Close the test listener

	// Start server in goroutine now that we know binding works
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("HTTP server failed: %v", err)
		}
	}()

	logging.Success("Ledger simulator started successfully")
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down ledger simulator...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}
