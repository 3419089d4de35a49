package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/gofulmen/appidentity"
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/namelens/namesmith/internal/ailink/driver"
	"github.com/namelens/namesmith/internal/appid"
	"github.com/namelens/namesmith/internal/config"
	"github.com/namelens/namesmith/internal/observability"
)

var (
	cfgFile   string
	verbose   bool
	traceFile string

	appIdentity *appidentity.Identity

	// Version info set by main package
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// GetAppIdentity returns the loaded app identity (only valid after initConfig)
func GetAppIdentity() *appidentity.Identity {
	if appIdentity == nil {
		return appid.Default()
	}
	return appIdentity
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   filepath.Base(os.Args[0]),
	Short: appid.Description,
	Long: appid.BinaryName + ` generates brandable names from keywords, scores them, and
checks domain availability across registrar backends.

Use the subcommands to perform specific operations.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Keep config loading from emitting metrics to stdout. serve installs
	// the Prometheus-backed system later.
	disabledConfig := &telemetry.Config{Enabled: false}
	if sys, err := telemetry.NewSystem(disabledConfig); err == nil {
		telemetry.SetGlobalSystem(sys)
	}

	if identity, err := appid.Get(context.Background()); err == nil && identity != nil {
		applyIdentity(identity)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/"+appid.ConfigName+"/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")
	rootCmd.PersistentFlags().StringVar(&traceFile, "trace", "", "trace completion requests/responses to NDJSON file")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func applyIdentity(identity *appidentity.Identity) {
	appIdentity = identity
	if identity.BinaryName != "" {
		rootCmd.Use = identity.BinaryName
	}
	if identity.Description != "" {
		rootCmd.Short = identity.Description
	}
}

// initConfig prepares logging, tracing, and the config file location. The
// config itself is loaded lazily by loadConfig so commands that never need
// it (version, help) do not fail on a broken file.
func initConfig() {
	identity, err := appid.Get(context.Background())
	if err != nil {
		ExitWithCodeStderr(foundry.ExitFileNotFound, "Failed to load app identity", err)
	}
	applyIdentity(identity)

	observability.InitCLILogger(identity.BinaryName, verbose)

	if traceFile != "" {
		cleanup, err := driver.EnableTracing(traceFile)
		if err != nil {
			observability.CLILogger.Warn("Failed to enable tracing", zap.Error(err))
		} else {
			observability.CLILogger.Debug("Completion tracing enabled", zap.String("file", traceFile))
			// The trace file stays open for the whole process.
			_ = cleanup
		}
	}

	config.SetConfigFile(cfgFile)
}

// loadConfig loads the layered configuration for a command.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose && observability.CLILogger != nil {
		observability.CLILogger.Debug("Configuration loaded",
			zap.String("cache_backend", cfg.Cache.Backend),
			zap.Strings("providers", cfg.Domain.Providers))
	}
	return cfg, nil
}

// cliLogger returns the CLI logger, or a no-op logger before initConfig ran.
func cliLogger() observability.Logger {
	if observability.CLILogger == nil {
		return observability.Nop()
	}
	return observability.CLILogger
}
