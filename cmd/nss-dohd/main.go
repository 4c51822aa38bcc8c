package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nssdoh/nss-doh/internal/dns/common/clock"
	"github.com/nssdoh/nss-doh/internal/dns/common/log"
	"github.com/nssdoh/nss-doh/internal/dns/config"
	"github.com/nssdoh/nss-doh/internal/dns/gateways/transport"
	"github.com/nssdoh/nss-doh/internal/dns/gateways/upstream"
	"github.com/nssdoh/nss-doh/internal/dns/gateways/wire"
	"github.com/nssdoh/nss-doh/internal/dns/services/session"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "nss-dohd"

	// Default timeouts
	defaultShutdownTimeout = 10 * time.Second
)

// Application holds all the components of the resolution daemon
type Application struct {
	config    *config.AppConfig
	transport *transport.UnixTransport
	session   *session.Service
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Configure global logging
	err = log.Configure(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":          version,
		"env":              cfg.Env,
		"log_level":        cfg.LogLevel,
		"socket_path":      cfg.SocketPath,
		"resolver":         cfg.Resolver,
		"timeout":          cfg.Timeout,
		"upstream_timeout": cfg.UpstreamTimeout,
	}, "Starting nss-doh daemon")

	// Build application with all dependencies
	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	// Start the daemon
	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Daemon failed")
	}

	log.Info(nil, "nss-doh daemon stopped gracefully")
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	// Create shared clock for consistent time across all components
	clk := clock.RealClock{}

	// Initialize logger (already configured globally)
	logger := log.GetLogger()

	// Create the frame codec for the local socket protocol
	codec := wire.NewFrameCodec(logger)

	// Create the DoH upstream client
	upstreamClient, err := upstream.NewResolver(upstream.Options{
		Resolver: cfg.Resolver,
		Timeout:  time.Duration(cfg.UpstreamTimeout) * time.Second,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream client: %w", err)
	}

	log.Info(map[string]any{
		"resolver": cfg.Resolver,
		"timeout":  cfg.UpstreamTimeout,
	}, "Upstream DoH client configured")

	// Build the session service
	sessionService := session.NewService(session.ServiceOptions{
		Codec:    codec,
		Upstream: upstreamClient,
		Logger:   logger,
	})

	// Build the transport layer
	unixTransport := transport.NewUnixTransport(
		cfg.SocketPath,
		time.Duration(cfg.Timeout)*time.Second,
		clk,
		logger,
	)

	return &Application{
		config:    cfg,
		transport: unixTransport,
		session:   sessionService,
	}, nil
}

// Run starts the daemon and blocks until context is cancelled
func (app *Application) Run(ctx context.Context) error {
	// Start the unix socket transport
	if err := app.transport.Start(ctx, app.session); err != nil {
		return fmt.Errorf("failed to start transport: %w", err)
	}

	log.Info(map[string]any{
		"socket":    app.transport.Address(),
		"transport": "unix",
	}, "Resolution daemon started")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info(nil, "Shutdown initiated")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	// Stop transport gracefully. In-flight sessions are not drained; each
	// releases its own connection when it reaches a terminal state.
	if err := app.transport.Stop(); err != nil {
		log.Warn(map[string]any{"error": err}, "Error during transport shutdown")
	}

	// Wait for shutdown completion or timeout
	done := make(chan struct{})
	go func() {
		// Additional cleanup could go here
		close(done)
	}()

	select {
	case <-done:
		log.Info(nil, "Graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		log.Warn(map[string]any{"timeout": defaultShutdownTimeout}, "Shutdown timeout exceeded")
		return fmt.Errorf("shutdown timeout")
	}
}
