// Package config provides centralized configuration management for namesmith.
// Layers, lowest to highest precedence:
//  1. built-in defaults (SetDefaults)
//  2. the user config file (--config or the XDG config path)
//  3. NAMESMITH_* environment variables, a local .env file included
//  4. runtime overrides passed to Load
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/fulmenhq/gofulmen/appidentity"
	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/namelens/namesmith/internal/appid"
	"github.com/namelens/namesmith/internal/core"
)

var (
	// appConfig holds the current application configuration
	appConfig   *Config
	configMu    sync.RWMutex
	configFile  string
	appIdentity *appidentity.Identity
)

// EnvVarSpec defines environment variable mappings for config fields
// following the pattern: {PREFIX}{NAME} maps to config path
type EnvVarSpec = gfconfig.EnvVarSpec

// Environment variable types
const (
	EnvString = gfconfig.EnvString
	EnvInt    = gfconfig.EnvInt
	EnvBool   = gfconfig.EnvBool
)

// DotEnvFile is read from the working directory before env overrides are
// collected. Variables already present in the environment win.
const DotEnvFile = ".env"

// SetConfigFile pins the config file read by Load. An empty path restores
// XDG discovery.
func SetConfigFile(path string) {
	configMu.Lock()
	defer configMu.Unlock()
	configFile = strings.TrimSpace(path)
}

func currentConfigFile() string {
	configMu.RLock()
	defer configMu.RUnlock()
	return configFile
}

// Load builds the configuration from all layers. It is safe to call multiple
// times (e.g. for config reload).
func Load(ctx context.Context, runtimeOverrides ...map[string]any) (*Config, error) {
	if appIdentity == nil {
		identity, err := appid.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load app identity: %w", err)
		}
		appIdentity = identity
	}
	prefix := appid.EnvPrefixOf(appIdentity)

	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	SetDefaults(v)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	envOverrides, err := gfconfig.LoadEnvOverrides(getEnvSpecs())
	if err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}
	applyAILinkDynamicEnvOverrides(prefix, envOverrides)

	if value := strings.TrimSpace(os.Getenv(prefix + "RATE_LIMIT_MARGIN")); value != "" {
		margin, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rate limit margin: %w", err)
		}
		envOverrides["rate_limit_margin"] = margin
	}

	layers := append([]map[string]any{envOverrides}, runtimeOverrides...)
	for _, layer := range layers {
		if len(layer) == 0 {
			continue
		}
		if err := v.MergeConfigMap(layer); err != nil {
			return nil, fmt.Errorf("failed to merge config overrides: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg, viper.DecodeHook(decodeHook())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.Store.URL) == "" && strings.TrimSpace(cfg.Store.Path) == "" {
		cfg.Store.Path = DefaultStorePath()
	}
	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	setConfig(cfg)

	return cfg, nil
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.StringToFloat64HookFunc(),
	)
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

func readConfigFile(v *viper.Viper) error {
	path := currentConfigFile()
	if path == "" {
		for _, candidate := range getUserConfigPaths() {
			info, err := os.Stat(candidate)
			if err != nil {
				continue
			}
			if info.IsDir() {
				candidate = filepath.Join(candidate, "config.yaml")
				if _, err := os.Stat(candidate); err != nil {
					continue
				}
			}
			path = candidate
			break
		}
	}
	if path == "" {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects configurations the wiring layer cannot act on.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	switch cfg.Cache.Backend {
	case CacheBackendMemory, CacheBackendStore:
	case CacheBackendRedis:
		if strings.TrimSpace(cfg.Cache.Redis.Addr) == "" {
			return errors.New("cache.redis.addr is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("unknown cache.backend %q", cfg.Cache.Backend)
	}
	for _, id := range cfg.Domain.Providers {
		switch strings.ToLower(strings.TrimSpace(id)) {
		case ProviderRDAP, ProviderRegistrar, ProviderLoopia:
		default:
			return fmt.Errorf("unknown domain provider %q", id)
		}
	}
	if cfg.RateLimitMargin <= 0 || cfg.RateLimitMargin > 1 {
		return fmt.Errorf("rate_limit_margin must be in (0, 1], got %v", cfg.RateLimitMargin)
	}
	if cfg.Batch.GroupSize < 1 {
		return fmt.Errorf("batch.group_size must be positive, got %d", cfg.Batch.GroupSize)
	}
	return nil
}

// ResolvedExtensions returns the explicit extension list, or the extensions
// of the configured profile when none is set.
func (d DomainConfig) ResolvedExtensions() ([]string, error) {
	if exts := core.NormalizeExtensions(d.Extensions); len(exts) > 0 {
		return exts, nil
	}
	name := d.Profile
	if strings.TrimSpace(name) == "" {
		name = core.DefaultProfile
	}
	profile, ok := core.FindBuiltInProfile(name)
	if !ok {
		return nil, fmt.Errorf("unknown domain profile %q (known: %s)", name, strings.Join(core.ProfileNames(), ", "))
	}
	return core.NormalizeExtensions(profile.Extensions), nil
}

// GetConfig returns the current application configuration (thread-safe)
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

// setConfig updates the current configuration (thread-safe)
func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

// getUserConfigPaths returns the list of user config file paths to check
// Uses gofulmen/config for XDG-compliant path discovery
func getUserConfigPaths() []string {
	configName, binaryName := appNamesForPaths()

	legacyNames := []string{}
	if binaryName != configName {
		legacyNames = append(legacyNames, binaryName)
	}

	return gfconfig.GetAppConfigPaths(configName, legacyNames...)
}

// envBindings maps NAMESMITH_<suffix> onto a dotted config path. Durations
// and lists are read as strings and converted by decodeHook.
var envBindings = []EnvVarSpec{
	envStr("HOST", "server.host"),
	envNum("PORT", "server.port"),
	envStr("READ_TIMEOUT", "server.read_timeout"),
	envStr("WRITE_TIMEOUT", "server.write_timeout"),
	envStr("IDLE_TIMEOUT", "server.idle_timeout"),
	envStr("SHUTDOWN_TIMEOUT", "server.shutdown_timeout"),
	envStr("LOG_LEVEL", "logging.level"),
	envStr("LOG_PROFILE", "logging.profile"),

	envStr("DB_DRIVER", "store.driver"),
	envStr("DB_PATH", "store.path"),
	envStr("DB_URL", "store.url"),
	envStr("DB_AUTH_TOKEN", "store.auth_token"),

	envStr("CACHE_BACKEND", "cache.backend"),
	envStr("CACHE_TTL", "cache.ttl"),
	envStr("CACHE_CLEANUP_INTERVAL", "cache.cleanup_interval"),
	envStr("REDIS_ADDR", "cache.redis.addr"),
	envStr("REDIS_PASSWORD", "cache.redis.password"),
	envNum("REDIS_DB", "cache.redis.db"),

	envStr("DOMAIN_PROFILE", "domain.profile"),
	envStr("DOMAIN_EXTENSIONS", "domain.extensions"),
	envStr("DOMAIN_PROVIDERS", "domain.providers"),
	envStr("DOMAIN_PROVIDER_TIMEOUT", "domain.provider_timeout"),
	envStr("RDAP_TIMEOUT", "domain.rdap.timeout"),
	envStr("REGISTRAR_NAME", "domain.registrar.name"),
	envStr("REGISTRAR_BASE_URL", "domain.registrar.base_url"),
	envStr("REGISTRAR_API_KEY", "domain.registrar.api_key"),
	envStr("LOOPIA_ENDPOINT", "domain.loopia.endpoint"),
	envStr("LOOPIA_USERNAME", "domain.loopia.username"),
	envStr("LOOPIA_PASSWORD", "domain.loopia.password"),
	envStr("DNS_SERVERS", "domain.dns.servers"),
	envStr("DNS_TIMEOUT", "domain.dns.timeout"),

	envNum("BATCH_GROUP_SIZE", "batch.group_size"),
	envStr("BATCH_GROUP_DELAY", "batch.group_delay"),
	envNum("BATCH_MAX_NAMES", "batch.max_names"),

	envStr("AILINK_DEFAULT_PROVIDER", "ailink.default_provider"),
	envStr("AILINK_ATTEMPT_TIMEOUT", "ailink.attempt_timeout"),
	envNum("AILINK_MAX_RETRIES", "ailink.max_retries"),
	envStr("AILINK_RETRY_BASE_DELAY", "ailink.retry_base_delay"),
	envNum("AILINK_MAX_TOKENS", "ailink.max_tokens"),
	envStr("AILINK_PROMPTS_DIR", "ailink.prompts_dir"),

	envFlag("METRICS_ENABLED", "metrics.enabled"),
	envNum("METRICS_PORT", "metrics.port"),
	envFlag("HEALTH_ENABLED", "health.enabled"),
	envFlag("DEBUG_ENABLED", "debug.enabled"),
	envFlag("DEBUG_PPROF_ENABLED", "debug.pprof_enabled"),
}

// getEnvSpecs expands envBindings with the identity's env prefix.
func getEnvSpecs() []EnvVarSpec {
	prefix := appid.EnvPrefixOf(appIdentity)
	specs := make([]EnvVarSpec, len(envBindings))
	for i, spec := range envBindings {
		spec.Name = prefix + spec.Name
		specs[i] = spec
	}
	return specs
}

func envStr(suffix, path string) EnvVarSpec {
	return EnvVarSpec{Name: suffix, Path: strings.Split(path, "."), Type: EnvString}
}

func envNum(suffix, path string) EnvVarSpec {
	spec := envStr(suffix, path)
	spec.Type = EnvInt
	return spec
}

func envFlag(suffix, path string) EnvVarSpec {
	spec := envStr(suffix, path)
	spec.Type = EnvBool
	return spec
}

// appNamesForPaths returns the config name and binary name from app identity,
// falling back to the built-in identity if not set.
func appNamesForPaths() (configName string, binaryName string) {
	configName = appid.ConfigName
	binaryName = appid.BinaryName
	if appIdentity == nil {
		return configName, binaryName
	}

	if strings.TrimSpace(appIdentity.ConfigName) != "" {
		configName = appIdentity.ConfigName
	}
	if strings.TrimSpace(appIdentity.BinaryName) != "" {
		binaryName = appIdentity.BinaryName
	}
	return configName, binaryName
}

// DefaultConfigPath returns the XDG-compliant path to the user config file.
func DefaultConfigPath() string {
	configName, _ := appNamesForPaths()
	configDir := gfconfig.GetAppConfigDir(configName)
	if strings.TrimSpace(configDir) == "" {
		return ""
	}
	return filepath.Join(configDir, "config.yaml")
}

// DefaultDataDir returns the XDG-compliant data directory for the app.
func DefaultDataDir() string {
	configName, _ := appNamesForPaths()
	return gfconfig.GetAppDataDir(configName)
}

// DefaultStorePath returns the XDG-compliant path to the database file.
func DefaultStorePath() string {
	configName, binaryName := appNamesForPaths()
	dataDir := gfconfig.GetAppDataDir(configName)
	if strings.TrimSpace(dataDir) == "" {
		return "./" + binaryName + ".db"
	}
	return filepath.Join(dataDir, binaryName+".db")
}
