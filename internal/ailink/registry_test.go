package ailink

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveModelUsesOverrideFirst(t *testing.T) {
	providerCfg := ProviderInstanceConfig{Models: map[string]string{"default": "m-default"}}

	model, err := resolveModel(providerCfg, "override-model")
	require.NoError(t, err)
	require.Equal(t, "override-model", model)
}

func TestResolveModelFallsBackToDefault(t *testing.T) {
	providerCfg := ProviderInstanceConfig{Models: map[string]string{"default": "m-default"}}

	model, err := resolveModel(providerCfg, "")
	require.NoError(t, err)
	require.Equal(t, "m-default", model)
}

func TestResolveModelErrorsWhenUnset(t *testing.T) {
	_, err := resolveModel(ProviderInstanceConfig{}, "")
	require.Error(t, err)
}

func TestSelectCredentialPrefersHighestPriority(t *testing.T) {
	cfg := ProviderInstanceConfig{Credentials: []CredentialConfig{
		{Enabled: true, Label: "low", APIKey: "k1", Priority: 1},
		{Enabled: true, Label: "high", APIKey: "k2", Priority: 5},
		{Enabled: true, Label: "empty", APIKey: "", Priority: 9},
	}}

	cred, key, err := selectCredential(cfg, nil)
	require.NoError(t, err)
	require.Equal(t, "high", key)
	require.Equal(t, "k2", cred.APIKey)
}

func TestSelectCredentialRoundRobin(t *testing.T) {
	cfg := ProviderInstanceConfig{
		SelectionPolicy: "round_robin",
		Credentials: []CredentialConfig{
			{Enabled: true, Label: "a", APIKey: "ka"},
			{Enabled: true, Label: "b", APIKey: "kb"},
		},
	}
	reg := NewRegistry(Config{})
	next := func(group string, n int) int { return reg.rrIndex("p:"+group, n) }

	_, first, err := selectCredential(cfg, next)
	require.NoError(t, err)
	_, second, err := selectCredential(cfg, next)
	require.NoError(t, err)
	_, third, err := selectCredential(cfg, next)
	require.NoError(t, err)

	require.Equal(t, []string{"a", "b", "a"}, []string{first, second, third})
}

func TestSelectCredentialHonorsDefaultLabel(t *testing.T) {
	cfg := ProviderInstanceConfig{
		DefaultCredential: "backup",
		Credentials: []CredentialConfig{
			{Enabled: true, Label: "main", APIKey: "k1", Priority: 10},
			{Enabled: true, Label: "backup", APIKey: "k2"},
		},
	}
	_, key, err := selectCredential(cfg, nil)
	require.NoError(t, err)
	require.Equal(t, "backup", key)
}

func TestResolveRoutesByRoleAndCachesDriver(t *testing.T) {
	reg := NewRegistry(Config{
		DefaultProvider: "main",
		Providers: map[string]ProviderInstanceConfig{
			"main": {
				Enabled:     true,
				AIProvider:  "openai",
				Models:      map[string]string{"default": "gpt-4o-mini"},
				Credentials: []CredentialConfig{{Enabled: true, Label: "default", APIKey: "sk-test"}},
			},
			"grok": {
				Enabled:     true,
				AIProvider:  "xai",
				Models:      map[string]string{"default": "grok-4"},
				Credentials: []CredentialConfig{{Enabled: true, Label: "default", APIKey: "xai-test"}},
			},
		},
		Routing: map[string]string{"name-generation": "grok"},
	})

	resolved, err := reg.Resolve("name-generation", "")
	require.NoError(t, err)
	require.Equal(t, "grok", resolved.ProviderID)
	require.Equal(t, "grok-4", resolved.Model)
	require.Equal(t, "https://api.x.ai/v1", resolved.BaseURL)
	require.Equal(t, "xai", resolved.Driver.Name())

	again, err := reg.Resolve("name-generation", "")
	require.NoError(t, err)
	require.Same(t, resolved.Driver, again.Driver)

	fallback, err := reg.Resolve("", "")
	require.NoError(t, err)
	require.Equal(t, "main", fallback.ProviderID)
	require.Equal(t, "https://api.openai.com/v1", fallback.BaseURL)
}

func TestResolveRejectsUnsupportedProvider(t *testing.T) {
	reg := NewRegistry(Config{
		DefaultProvider: "x",
		Providers: map[string]ProviderInstanceConfig{
			"x": {
				Enabled:     true,
				AIProvider:  "anthropic",
				Models:      map[string]string{"default": "m"},
				Credentials: []CredentialConfig{{Enabled: true, APIKey: "k"}},
			},
		},
	})
	_, err := reg.Resolve("", "")
	require.Error(t, err)
}

func TestResolveOpenAICompatibleRequiresBaseURL(t *testing.T) {
	reg := NewRegistry(Config{
		DefaultProvider: "local",
		Providers: map[string]ProviderInstanceConfig{
			"local": {
				Enabled:     true,
				AIProvider:  "openai-compatible",
				Models:      map[string]string{"default": "llama"},
				Credentials: []CredentialConfig{{Enabled: true, APIKey: "k"}},
			},
		},
	})
	_, err := reg.Resolve("", "")
	require.Error(t, err)
}

func TestResolveFallsBackToRoleThenSoleProvider(t *testing.T) {
	creds := []CredentialConfig{{Enabled: true, APIKey: "k"}}
	reg := NewRegistry(Config{
		Providers: map[string]ProviderInstanceConfig{
			"b-writer": {Enabled: true, AIProvider: "openai", Roles: []string{"Name-Generation"}, Models: map[string]string{"default": "m1"}, Credentials: creds},
			"c-off":    {Enabled: false, AIProvider: "openai", Roles: []string{"name-generation"}, Models: map[string]string{"default": "m2"}, Credentials: creds},
		},
	})

	byRole, err := reg.Resolve("name-generation", "")
	require.NoError(t, err)
	require.Equal(t, "b-writer", byRole.ProviderID)

	sole, err := reg.Resolve("", "custom-model")
	require.NoError(t, err)
	require.Equal(t, "b-writer", sole.ProviderID)
	require.Equal(t, "custom-model", sole.Model)
}

func TestResolveWithoutProviders(t *testing.T) {
	_, err := NewRegistry(Config{}).Resolve("name-generation", "")
	require.ErrorIs(t, err, ErrNoProvider)

	var reg *Registry
	_, err = reg.Resolve("", "")
	require.ErrorIs(t, err, ErrNoProvider)
}
