package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetProviderValue(t *testing.T) {
	overrides := map[string]any{}
	setProviderValue(overrides, []string{"LOCAL", "LLM", "ROLES"}, "Name-Generation, scoring")
	setProviderValue(overrides, []string{"LOCAL", "LLM", "BASE", "URL"}, "http://127.0.0.1:11434/v1")
	setProviderValue(overrides, []string{"LOCAL", "LLM", "CREDENTIALS", "1", "ENABLED"}, "TRUE")
	setProviderValue(overrides, []string{"LOCAL", "LLM", "CREDENTIALS", "x", "API", "KEY"}, "ignored")
	setProviderValue(overrides, []string{"ORPHAN"}, "ignored")

	provider := overrides["ailink"].(map[string]any)["providers"].(map[string]any)["local-llm"].(map[string]any)
	require.Equal(t, []string{"name-generation", "scoring"}, provider["roles"])
	require.Equal(t, "http://127.0.0.1:11434/v1", provider["base_url"])

	creds := provider["credentials"].([]any)
	require.Len(t, creds, 2)
	require.Equal(t, map[string]any{}, creds[0])
	require.Equal(t, map[string]any{"enabled": true}, creds[1])
	require.Len(t, overrides["ailink"].(map[string]any)["providers"], 1)
}

func TestToSlug(t *testing.T) {
	require.Equal(t, "name-generation", toSlug("NAME__GENERATION_"))
	require.Empty(t, toSlug("___"))
}
