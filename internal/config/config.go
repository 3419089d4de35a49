package config

import (
	"time"

	"github.com/namelens/namesmith/internal/ailink"
)

// Config is the complete application configuration. Values are layered as
// built-in defaults, then the user config file, then NAMESMITH_* environment
// variables (a local .env file included), then runtime overrides.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Domain  DomainConfig  `mapstructure:"domain"`
	Batch   BatchConfig   `mapstructure:"batch"`
	AILink  ailink.Config `mapstructure:"ailink"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
	Debug   DebugConfig   `mapstructure:"debug"`

	RateLimits      map[string]int `mapstructure:"rate_limits"`
	RateLimitMargin float64        `mapstructure:"rate_limit_margin"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig contains database configuration for libsql/Turso
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendStore  = "store"
)

// CacheConfig selects the domain-check cache backend.
type CacheConfig struct {
	Backend         string        `mapstructure:"backend"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Redis           RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// DomainConfig contains domain checker configuration.
type DomainConfig struct {
	Profile         string          `mapstructure:"profile"`
	Extensions      []string        `mapstructure:"extensions"`
	ProviderTimeout time.Duration   `mapstructure:"provider_timeout"`
	Providers       []string        `mapstructure:"providers"`
	RDAP            RDAPConfig      `mapstructure:"rdap"`
	Registrar       RegistrarConfig `mapstructure:"registrar"`
	Loopia          LoopiaConfig    `mapstructure:"loopia"`
	DNS             DNSConfig       `mapstructure:"dns"`
}

// Domain provider identifiers accepted in domain.providers.
const (
	ProviderRDAP      = "rdap"
	ProviderRegistrar = "registrar"
	ProviderLoopia    = "loopia"
)

// RDAPConfig pins RDAP base URLs per TLD; unlisted TLDs use IANA bootstrap.
type RDAPConfig struct {
	Timeout time.Duration       `mapstructure:"timeout"`
	Servers map[string][]string `mapstructure:"servers"`
}

// RegistrarConfig points at a JSON registrar availability API.
type RegistrarConfig struct {
	Name    string `mapstructure:"name"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// LoopiaConfig holds Loopia XML-RPC credentials.
type LoopiaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// DNSConfig configures the DNS fallback probe.
type DNSConfig struct {
	Servers []string      `mapstructure:"servers"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// BatchConfig controls batch domain checks.
type BatchConfig struct {
	GroupSize  int           `mapstructure:"group_size"`
	GroupDelay time.Duration `mapstructure:"group_delay"`

	// MaxNames caps names per HTTP batch request.
	MaxNames int `mapstructure:"max_names"`
}

// LoggingConfig contains logging configuration.
// Profiles: SIMPLE (CLI console output), STRUCTURED (server JSON output).
type LoggingConfig struct {
	// Valid values: trace, debug, info, warn, error
	Level   string `mapstructure:"level"`
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Port is the dedicated Prometheus exporter port.
	Port int `mapstructure:"port"`
}

// HealthConfig contains health check configuration
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DebugConfig contains debug and profiling configuration
type DebugConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// WARNING: Only enable in development/staging environments
	PprofEnabled bool `mapstructure:"pprof_enabled"`
}
