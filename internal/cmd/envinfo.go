package cmd

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/namelens/namesmith/internal/config"
	"github.com/namelens/namesmith/internal/observability"
)

var envInfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Display environment information",
	Long:  "Display environment, configuration, and version information. Secrets are reported as set or unset only.",
	Run: func(cmd *cobra.Command, args []string) {
		log := observability.CLILogger
		deps := crucible.GetVersion()
		identity := GetAppIdentity()

		log.Info("=== " + identity.BinaryName + " Environment Information ===")
		log.Info("")
		log.Info("Application:")
		log.Info("  Name:       " + identity.BinaryName)
		log.Info("  Version:    " + versionInfo.Version)
		log.Info("  Commit:     " + versionInfo.Commit)
		log.Info("  Built:      " + versionInfo.BuildDate)
		log.Info("")
		log.Info("SSOT:")
		log.Info("  Gofulmen:   "+deps.Gofulmen, zap.String("gofulmen_version", deps.Gofulmen))
		log.Info("  Crucible:   "+deps.Crucible, zap.String("crucible_version", deps.Crucible))
		log.Info("")
		log.Info("Runtime:")
		log.Info("  Go Version: " + runtime.Version())
		log.Info("  Platform:   " + runtime.GOOS + "/" + runtime.GOARCH)
		log.Info(fmt.Sprintf("  NumCPU:     %d", runtime.NumCPU()))
		log.Info("")

		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			log.Warn("Config load failed", zap.Error(err))
			return
		}

		log.Info("Configuration:")
		log.Info("  Config File:    " + config.DefaultConfigPath())
		log.Info(fmt.Sprintf("  Server:         %s:%d", cfg.Server.Host, cfg.Server.Port))
		log.Info("  Log Level:      " + cfg.Logging.Level)
		log.Info("  Store Driver:   " + cfg.Store.Driver)
		if strings.TrimSpace(cfg.Store.URL) != "" {
			log.Info("  Store URL:      " + cfg.Store.URL)
		} else {
			log.Info("  Store Path:     " + cfg.Store.Path)
		}
		log.Info(fmt.Sprintf("  Metrics:        %t (port %d)", cfg.Metrics.Enabled, cfg.Metrics.Port))
		log.Info("")

		log.Info("Domain Checking:")
		log.Info("  Providers:      " + strings.Join(cfg.Domain.Providers, " -> "))
		if exts, err := cfg.Domain.ResolvedExtensions(); err == nil {
			log.Info("  Extensions:     " + strings.Join(exts, " "))
		} else {
			log.Warn("  Extensions:     " + err.Error())
		}
		log.Info("  Provider Timeout: " + cfg.Domain.ProviderTimeout.String())
		log.Info("  Cache:          " + cfg.Cache.Backend + " (ttl " + cfg.Cache.TTL.String() + ")")
		log.Info(fmt.Sprintf("  Batch:          groups of %d, %s apart", cfg.Batch.GroupSize, cfg.Batch.GroupDelay))
		log.Info(fmt.Sprintf("  Rate Margin:    %.2f", cfg.RateLimitMargin))
		if cfg.Domain.Registrar.BaseURL != "" {
			log.Info("  Registrar:      " + cfg.Domain.Registrar.BaseURL + " (api key " + setOrUnset(cfg.Domain.Registrar.APIKey) + ")")
		}
		if cfg.Domain.Loopia.Username != "" {
			log.Info("  Loopia:         " + cfg.Domain.Loopia.Username + " (password " + setOrUnset(cfg.Domain.Loopia.Password) + ")")
		}
		log.Info("")

		log.Info("AILink:")
		log.Info("  Default Provider: " + valueOr(cfg.AILink.DefaultProvider, "(unset)"))
		ids := make([]string, 0, len(cfg.AILink.Providers))
		for id := range cfg.AILink.Providers {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			provider := cfg.AILink.Providers[id]
			apiKey := ""
			if len(provider.Credentials) > 0 {
				apiKey = provider.Credentials[0].APIKey
			}
			log.Info(fmt.Sprintf("  %s: enabled=%t type=%s model=%s api_key=%s",
				id, provider.Enabled, provider.AIProvider, provider.Models["default"], setOrUnset(apiKey)))
		}
		log.Info("")
		log.Info("=== End Environment Information ===")
	},
}

func setOrUnset(secret string) string {
	if strings.TrimSpace(secret) == "" {
		return "not set"
	}
	return "set"
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func init() {
	rootCmd.AddCommand(envInfoCmd)
}
