package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// isolate keeps the developer's own config and .env out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))

	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	SetConfigFile("")
	t.Cleanup(func() { SetConfigFile("") })
	return dir
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults", func(t *testing.T) {
		isolate(t)
		cfg, err := Load(ctx)
		require.NoError(t, err)

		require.Equal(t, "localhost", cfg.Server.Host)
		require.Equal(t, 8080, cfg.Server.Port)
		require.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		require.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

		require.Equal(t, "libsql", cfg.Store.Driver)
		require.NotEmpty(t, cfg.Store.Path)

		require.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
		require.Equal(t, 30*time.Minute, cfg.Cache.TTL)

		require.Equal(t, "default", cfg.Domain.Profile)
		require.Equal(t, 10*time.Second, cfg.Domain.ProviderTimeout)
		require.Equal(t, []string{ProviderRDAP}, cfg.Domain.Providers)
		require.Equal(t, 5*time.Second, cfg.Domain.DNS.Timeout)

		require.Equal(t, 5, cfg.Batch.GroupSize)
		require.Equal(t, time.Second, cfg.Batch.GroupDelay)

		require.Equal(t, 30*time.Second, cfg.AILink.AttemptTimeout)
		require.Equal(t, 3, cfg.AILink.MaxRetries)
		require.Equal(t, time.Second, cfg.AILink.RetryBaseDelay)
		require.Equal(t, 2000, cfg.AILink.MaxTokens)

		require.Equal(t, 0.9, cfg.RateLimitMargin)
		require.Equal(t, "info", cfg.Logging.Level)
		require.True(t, cfg.Metrics.Enabled)
		require.Equal(t, 9090, cfg.Metrics.Port)
		require.True(t, cfg.Health.Enabled)
		require.False(t, cfg.Debug.PprofEnabled)
	})

	t.Run("RuntimeOverrides", func(t *testing.T) {
		isolate(t)
		cfg, err := Load(ctx, map[string]any{
			"server":  map[string]any{"port": 9000, "host": "0.0.0.0"},
			"logging": map[string]any{"level": "debug"},
		})
		require.NoError(t, err)

		require.Equal(t, "0.0.0.0", cfg.Server.Host)
		require.Equal(t, 9000, cfg.Server.Port)
		require.Equal(t, "debug", cfg.Logging.Level)
		require.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		require.Equal(t, 9090, cfg.Metrics.Port)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		isolate(t)
		t.Setenv("NAMESMITH_PORT", "3000")
		t.Setenv("NAMESMITH_LOG_LEVEL", "warn")
		t.Setenv("NAMESMITH_METRICS_ENABLED", "false")
		t.Setenv("NAMESMITH_RATE_LIMIT_MARGIN", "0.8")
		t.Setenv("NAMESMITH_DOMAIN_EXTENSIONS", "com,dev")
		t.Setenv("NAMESMITH_READ_TIMEOUT", "45s")

		cfg, err := Load(ctx)
		require.NoError(t, err)

		require.Equal(t, 3000, cfg.Server.Port)
		require.Equal(t, "warn", cfg.Logging.Level)
		require.False(t, cfg.Metrics.Enabled)
		require.Equal(t, 0.8, cfg.RateLimitMargin)
		require.Equal(t, []string{"com", "dev"}, cfg.Domain.Extensions)
		require.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	})

	t.Run("RuntimeBeatsEnv", func(t *testing.T) {
		isolate(t)
		t.Setenv("NAMESMITH_PORT", "4000")

		cfg, err := Load(ctx, map[string]any{"server": map[string]any{"port": 5000}})
		require.NoError(t, err)
		require.Equal(t, 5000, cfg.Server.Port)
	})

	t.Run("ConfigFile", func(t *testing.T) {
		dir := isolate(t)
		path := filepath.Join(dir, "namesmith.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
cache:
  backend: redis
  redis:
    addr: localhost:6379
domain:
  providers: [rdap, loopia]
  rdap:
    servers:
      com: [https://rdap.example.test/]
server:
  port: 7000
`), 0o600))
		SetConfigFile(path)
		t.Setenv("NAMESMITH_PORT", "7100")

		cfg, err := Load(ctx)
		require.NoError(t, err)

		require.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
		require.Equal(t, "localhost:6379", cfg.Cache.Redis.Addr)
		require.Equal(t, []string{"rdap", "loopia"}, cfg.Domain.Providers)
		require.Equal(t, []string{"https://rdap.example.test/"}, cfg.Domain.RDAP.Servers["com"])
		require.Equal(t, 7100, cfg.Server.Port, "env beats file")
	})

	t.Run("MissingExplicitFile", func(t *testing.T) {
		dir := isolate(t)
		SetConfigFile(filepath.Join(dir, "nope.yaml"))
		_, err := Load(ctx)
		require.Error(t, err)
	})

	t.Run("DotEnv", func(t *testing.T) {
		dir := isolate(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, DotEnvFile), []byte("NAMESMITH_DOMAIN_PROFILE=startup\n"), 0o600))
		t.Cleanup(func() { _ = os.Unsetenv("NAMESMITH_DOMAIN_PROFILE") })

		cfg, err := Load(ctx)
		require.NoError(t, err)
		require.Equal(t, "startup", cfg.Domain.Profile)
	})

	t.Run("AILinkDynamicEnv", func(t *testing.T) {
		isolate(t)
		t.Setenv("NAMESMITH_AILINK_PROVIDERS_NAMESMITH_OPENAI_ENABLED", "true")
		t.Setenv("NAMESMITH_AILINK_PROVIDERS_NAMESMITH_OPENAI_AI_PROVIDER", "OpenAI")
		t.Setenv("NAMESMITH_AILINK_PROVIDERS_NAMESMITH_OPENAI_MODELS_DEFAULT", "gpt-4o-mini")
		t.Setenv("NAMESMITH_AILINK_PROVIDERS_NAMESMITH_OPENAI_CREDENTIALS_0_API_KEY", "sk-test")
		t.Setenv("NAMESMITH_AILINK_PROVIDERS_NAMESMITH_OPENAI_CREDENTIALS_0_PRIORITY", "5")
		t.Setenv("NAMESMITH_AILINK_PROVIDERS_NAMESMITH_OPENAI_SELECTION_POLICY", "round_robin")
		t.Setenv("NAMESMITH_AILINK_ROUTING_NAME_GENERATION", "namesmith-openai")

		cfg, err := Load(ctx)
		require.NoError(t, err)

		provider, ok := cfg.AILink.Providers["namesmith-openai"]
		require.True(t, ok)
		require.True(t, provider.Enabled)
		require.Equal(t, "openai", provider.AIProvider)
		require.Equal(t, "round_robin", provider.SelectionPolicy)
		require.Equal(t, "gpt-4o-mini", provider.Models["default"])
		require.Len(t, provider.Credentials, 1)
		require.Equal(t, "sk-test", provider.Credentials[0].APIKey)
		require.Equal(t, 5, provider.Credentials[0].Priority)
		require.Equal(t, "namesmith-openai", cfg.AILink.Routing["name-generation"])
	})

	t.Run("Invalid", func(t *testing.T) {
		isolate(t)
		cases := []map[string]any{
			{"cache": map[string]any{"backend": "redis"}},
			{"cache": map[string]any{"backend": "disk"}},
			{"domain": map[string]any{"providers": []string{"whois"}}},
			{"rate_limit_margin": 0},
			{"batch": map[string]any{"group_size": 0}},
		}
		for _, override := range cases {
			_, err := Load(ctx, override)
			require.Error(t, err, "%v", override)
		}
	})
}

func TestGetConfig(t *testing.T) {
	isolate(t)
	ctx := context.Background()

	cfg, err := Load(ctx)
	require.NoError(t, err)
	require.Equal(t, cfg.Server.Port, GetConfig().Server.Port)

	cfg2, err := Load(ctx, map[string]any{"server": map[string]any{"port": cfg.Server.Port + 1000}})
	require.NoError(t, err)
	require.Equal(t, cfg2.Server.Port, GetConfig().Server.Port)
}

func TestEnvSpecs(t *testing.T) {
	names := map[string]bool{}
	for _, spec := range getEnvSpecs() {
		names[spec.Name] = true
	}
	for _, want := range []string{
		"NAMESMITH_LOG_LEVEL",
		"NAMESMITH_PORT",
		"NAMESMITH_DB_PATH",
		"NAMESMITH_CACHE_BACKEND",
		"NAMESMITH_REDIS_ADDR",
		"NAMESMITH_LOOPIA_USERNAME",
		"NAMESMITH_REGISTRAR_API_KEY",
	} {
		require.True(t, names[want], want)
	}
}

func TestResolvedExtensions(t *testing.T) {
	exts, err := DomainConfig{Extensions: []string{"COM", ".dev", "com"}}.ResolvedExtensions()
	require.NoError(t, err)
	require.Equal(t, []string{".com", ".dev"}, exts)

	exts, err = DomainConfig{}.ResolvedExtensions()
	require.NoError(t, err)
	require.Equal(t, []string{".com", ".ai", ".io", ".org", ".net"}, exts)

	_, err = DomainConfig{Profile: "nope"}.ResolvedExtensions()
	require.Error(t, err)
}
