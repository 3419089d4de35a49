package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/namelens/namesmith/internal/ailink"
	"github.com/namelens/namesmith/internal/appid"
	"github.com/namelens/namesmith/internal/config"
	errwrap "github.com/namelens/namesmith/internal/errors"
	"github.com/namelens/namesmith/internal/metrics"
	"github.com/namelens/namesmith/internal/observability"
	"github.com/namelens/namesmith/internal/server"
	"github.com/namelens/namesmith/internal/server/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API with graceful shutdown support.

Endpoints:
  POST /v1/names/generate   generate, check, and rank names
  POST /v1/names/score      score names locally
  GET  /v1/domains/{name}   check a name or a single domain
  POST /v1/domains/batch    check many names in rate-limited groups

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Config re-validation (restart to apply changes)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "server host (default from config)")
	serveCmd.Flags().IntP("port", "p", 0, "server port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	overrides := map[string]any{}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		overrides["server"] = map[string]any{"host": host}
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		section, _ := overrides["server"].(map[string]any)
		if section == nil {
			section = map[string]any{}
		}
		section["port"] = port
		overrides["server"] = section
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.Load(ctx, overrides)
	if err != nil {
		return errwrap.WrapConfigInvalid(ctx, err, "config load failed")
	}

	identity := GetAppIdentity()
	namespace := identity.TelemetryNamespace()
	observability.InitServerLogger(identity.BinaryName, cfg.Logging.Level, namespace)
	log := observability.ServerLogger

	if cfg.Metrics.Enabled {
		if err := observability.InitMetrics(identity.BinaryName, cfg.Metrics.Port, namespace); err != nil {
			log.Error("Failed to initialize metrics", zap.Error(err))
			return errwrap.WrapInternal(ctx, err, "metrics initialization failed")
		}
	}

	svc, err := buildServices(ctx, cfg, log)
	if err != nil {
		return errwrap.WrapConfigInvalid(ctx, err, "service wiring failed")
	}
	defer svc.Close() // nolint:errcheck // best-effort cleanup

	svc.checker.StartCleanup(ctx, cfg.Cache.CleanupInterval)

	var generators handlers.GeneratorSource
	if _, err := ailink.NewRegistry(cfg.AILink).Resolve(generationRole, ""); err != nil {
		log.Warn("Name generation disabled: no completion provider", zap.Error(err))
	} else {
		generators = generatorSource{svc: svc}
	}

	log.Info("Initializing server",
		zap.String("service", identity.BinaryName),
		zap.String("namespace", namespace),
		zap.String("version", versionInfo.Version),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Strings("providers", cfg.Domain.Providers),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Bool("generation_enabled", generators != nil))

	handlers.InitHealthManager(versionInfo.Version)
	registerHealthChecks(handlers.GetHealthManager(), svc, generators != nil)
	handlers.SetAppIdentity(identity)
	handlers.SetFeatures(map[string]bool{
		"generation": generators != nil,
		"store":      svc.store != nil,
		"redis":      svc.redis != nil,
	})

	srv := server.New(server.Options{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		AdminToken:   os.Getenv(appid.EnvPrefixOf(identity) + "ADMIN_TOKEN"),
		Pprof:        cfg.Debug.Enabled && cfg.Debug.PprofEnabled,
		Logger:       log,
		API: &handlers.API{
			Generators:    generators,
			Domains:       svc.checker,
			Batch:         svc.batch,
			MaxBatchNames: cfg.Batch.MaxNames,
			Logger:        log,
		},
	})

	// Shutdown handlers run LIFO: the HTTP server stops before the logger flushes.
	signals.OnShutdown(func(ctx context.Context) error {
		log.Info("Flushing logger...")
		if err := log.Sync(); err != nil {
			log.Warn("Logger sync returned error (may be benign)", zap.Error(err))
		}
		return nil
	})
	signals.OnShutdown(func(ctx context.Context) error {
		cancel()
		shutdownCtx, done := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errwrap.WrapInternal(ctx, err, "server shutdown failed")
		}
		log.Info("HTTP server stopped gracefully")
		return nil
	})
	signals.OnReload(func(ctx context.Context) error {
		log.Info("Received SIGHUP: re-validating configuration")
		if _, err := config.Load(ctx, overrides); err != nil {
			log.Error("Configuration is invalid", zap.Error(err))
			return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
		}
		log.Info("Configuration valid; restart to apply changes")
		return nil
	})

	if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
		Window:  2 * time.Second,
		Message: "Press Ctrl+C again within 2 seconds to force quit",
	}); err != nil {
		log.Warn("Failed to enable double-tap force quit", zap.Error(err))
	}

	errChan := make(chan error, 2)
	metrics.SetServerStartTime(time.Now())
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
			return
		}
		errChan <- nil
	}()
	go func() {
		if err := signals.Listen(ctx); err != nil {
			log.Error("Signal handler error", zap.Error(err))
			errChan <- err
		}
	}()

	if err := <-errChan; err != nil {
		return errwrap.WrapInternal(ctx, err, "server error")
	}
	return nil
}

// registerHealthChecks wires the service dependencies into the health probes.
func registerHealthChecks(hm *handlers.HealthManager, svc *services, generation bool) {
	hm.RegisterChecker("store", handlers.HealthCheckFunc(func(ctx context.Context) error {
		if svc.store == nil {
			return &handlers.DegradedError{Reason: "store unavailable; rate limits kept in memory"}
		}
		return svc.store.DB.PingContext(ctx)
	}))
	hm.RegisterChecker("telemetry", handlers.HealthCheckFunc(func(ctx context.Context) error {
		if !svc.cfg.Metrics.Enabled {
			return nil
		}
		if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
			return errwrap.NewInternalError("telemetry system not initialized")
		}
		return nil
	}))
	hm.RegisterChecker("completion", handlers.HealthCheckFunc(func(ctx context.Context) error {
		if !generation {
			return &handlers.DegradedError{Reason: "no completion provider configured"}
		}
		return nil
	}))
	if svc.redis != nil {
		hm.RegisterChecker("redis", handlers.HealthCheckFunc(func(ctx context.Context) error {
			return svc.redis.Ping(ctx).Err()
		}))
	}
}
