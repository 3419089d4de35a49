package config

import (
	"github.com/spf13/viper"

	"github.com/namelens/namesmith/internal/ailink"
	"github.com/namelens/namesmith/internal/core"
)

// SetDefaults registers every built-in default on v. Keys set here are also
// the keys viper decodes, so a field without a default is only reachable from
// the config file or a runtime override.
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "SIMPLE")

	// Store defaults
	v.SetDefault("store.driver", "libsql")
	v.SetDefault("store.path", "")
	v.SetDefault("store.url", "")
	v.SetDefault("store.auth_token", "")

	// Cache defaults
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.ttl", "30m")
	v.SetDefault("cache.cleanup_interval", "10m")
	v.SetDefault("cache.redis.addr", "")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)

	// Domain checker defaults
	v.SetDefault("domain.profile", core.DefaultProfile)
	v.SetDefault("domain.extensions", []string{})
	v.SetDefault("domain.provider_timeout", "10s")
	v.SetDefault("domain.providers", []string{ProviderRDAP})
	v.SetDefault("domain.rdap.timeout", "8s")
	v.SetDefault("domain.registrar.name", "registrar")
	v.SetDefault("domain.registrar.base_url", "")
	v.SetDefault("domain.registrar.api_key", "")
	v.SetDefault("domain.loopia.endpoint", "https://api.loopia.se/RPCSERV")
	v.SetDefault("domain.loopia.username", "")
	v.SetDefault("domain.loopia.password", "")
	v.SetDefault("domain.dns.servers", []string{})
	v.SetDefault("domain.dns.timeout", "5s")

	// Batch defaults
	v.SetDefault("batch.group_size", 5)
	v.SetDefault("batch.group_delay", "1s")
	v.SetDefault("batch.max_names", 100)

	// AILink defaults
	v.SetDefault("ailink.default_provider", "")
	v.SetDefault("ailink.attempt_timeout", ailink.DefaultAttemptTimeout.String())
	v.SetDefault("ailink.max_retries", ailink.DefaultMaxRetries)
	v.SetDefault("ailink.retry_base_delay", ailink.DefaultRetryBaseDelay.String())
	v.SetDefault("ailink.max_tokens", ailink.DefaultMaxTokens)
	v.SetDefault("ailink.prompts_dir", "")

	// Rate limit overrides (optional)
	v.SetDefault("rate_limits", map[string]int{})
	v.SetDefault("rate_limit_margin", 0.9)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	v.SetDefault("health.enabled", true)

	v.SetDefault("debug.enabled", false)
	v.SetDefault("debug.pprof_enabled", false)
}
