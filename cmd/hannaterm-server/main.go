// Hanna Terminal Server
//
// Serves the browser terminal:
// - One login state machine and filesystem per browser session
// - JWT tokens binding a browser to its session
// - SSE stream for playback and control events
// - Optional filesystem snapshots (memory, local, S3, PostgreSQL)
// - Prometheus metrics & structured logging (zap)
package main

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/skairipa/hannaterm/internal/api"
	"github.com/skairipa/hannaterm/internal/auth"
	"github.com/skairipa/hannaterm/internal/config"
	"github.com/skairipa/hannaterm/internal/events"
	"github.com/skairipa/hannaterm/internal/logging"
	"github.com/skairipa/hannaterm/internal/metrics"
	"github.com/skairipa/hannaterm/internal/snapshot"
	"github.com/skairipa/hannaterm/web"
)

const reapInterval = time.Minute

func main() {
	// Load configuration
	cfg, err := config.LoadServer()
	if err != nil {
		// Can't use structured logging yet
		panic("configuration error: " + err.Error())
	}

	if err := logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}); err != nil {
		panic("logging init error: " + err.Error())
	}
	defer logging.Sync()

	logging.Info("Hanna Terminal server starting...",
		zap.String("listen", cfg.ListenAddr),
		zap.String("metrics", cfg.MetricsAddr),
		zap.String("hostname", cfg.Hostname))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := snapshot.New(ctx, cfg.Snapshot())
	if err != nil {
		logging.Fatal("snapshot store init failed", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
		logging.Info("snapshot store ready", zap.String("backend", store.Type()))
	} else {
		logging.Info("snapshots disabled")
	}

	ctrlOpts, err := cfg.ControllerOptions()
	if err != nil {
		logging.Fatal("controller options", zap.Error(err))
	}

	broadcaster := events.NewBroadcaster()

	srv := api.NewServer(api.Config{
		Tokens:      auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL),
		Broadcaster: broadcaster,
		Snapshots:   store,
		IdleTimeout: cfg.SessionIdleTimeout,
		Controller:  ctrlOpts,
		Assets:      web.Assets,
	})

	go srv.Sessions().Run(ctx, reapInterval)

	// Start metrics server
	metricsServer := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: metrics.Handler(),
	}
	go func() {
		logging.Info("metrics server listening", zap.String("addr", cfg.MetricsAddr))
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logging.Error("metrics server error", zap.Error(err))
		}
	}()

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// SSE streams end when ctx is cancelled.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	if cfg.TLSEnabled() {
		httpServer.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS13,
		}
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logging.Info("shutting down...")
		cancel()

		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn("http shutdown", zap.Error(err))
			httpServer.Close()
		}
		metricsServer.Close()
	}()

	if cfg.TLSEnabled() {
		logging.Info("server listening (TLS)", zap.String("addr", cfg.ListenAddr))
		err = httpServer.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
	} else {
		logging.Info("server listening", zap.String("addr", cfg.ListenAddr))
		err = httpServer.ListenAndServe()
	}
	if err != http.ErrServerClosed {
		logging.Fatal("server error", zap.Error(err))
	}
	logging.Info("server stopped")
}
