package cmd

import (
	"fmt"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	errwrap "github.com/namelens/namesmith/internal/errors"
	"github.com/namelens/namesmith/internal/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run self-health check",
	Long: `Verify that the configuration loads, the provider chain can be built,
and the store opens. Exits non-zero on the first hard failure.`,
	Run: func(cmd *cobra.Command, args []string) {
		log := observability.CLILogger
		if log == nil {
			ExitWithCodeStderr(foundry.ExitConfigInvalid, "Logger not initialized", errwrap.NewConfigInvalidError("Logger not initialized"))
			return
		}
		log.Info("Running health check...")

		if versionInfo.Version == "" {
			ExitWithCode(log, foundry.ExitConfigInvalid, "Version information missing", errwrap.NewConfigInvalidError("Version information missing"))
			return
		}
		log.Info("✅ Version information available", zap.String("version", versionInfo.Version))

		ctx := cmd.Context()
		cfg, err := loadConfig(ctx)
		if err != nil {
			ExitWithCode(log, foundry.ExitConfigInvalid, "Configuration invalid", err)
			return
		}
		log.Info("✅ Configuration loaded")

		svc, err := buildServices(ctx, cfg, log)
		if err != nil {
			ExitWithCode(log, foundry.ExitConfigInvalid, "Service wiring failed", err)
			return
		}
		defer svc.Close() // nolint:errcheck // best-effort cleanup
		log.Info(fmt.Sprintf("✅ Domain checker ready (%d provider(s), %s cache)", len(svc.checker.Providers), cfg.Cache.Backend))

		if svc.store == nil {
			log.Warn("⚠️  Store unavailable; rate limit state kept in memory")
		} else {
			log.Info("✅ Store open", zap.String("driver", svc.store.Driver()))
		}

		if _, err := svc.orchestrator(""); err != nil {
			log.Warn("⚠️  Name generation unavailable", zap.Error(err))
		} else {
			log.Info("✅ Completion provider resolved")
		}

		log.Info("")
		log.Info("✅ All health checks passed")
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
