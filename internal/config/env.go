package config

import (
	"os"
	"slices"
	"strconv"
	"strings"
)

// providerField maps the trailing tokens of a provider variable onto a
// config key.
type providerField struct {
	tokens []string
	key    string
	parse  func(string) any
}

var providerFields = []providerField{
	{[]string{"ENABLED"}, "enabled", parseBool},
	{[]string{"ROLES"}, "roles", func(v string) any { return splitList(v) }},
	{[]string{"AI", "PROVIDER"}, "ai_provider", lower},
	{[]string{"SELECTION", "POLICY"}, "selection_policy", lower},
	{[]string{"DEFAULT", "CREDENTIAL"}, "default_credential", trimmed},
	{[]string{"BASE", "URL"}, "base_url", trimmed},
}

// applyAILinkDynamicEnvOverrides folds variables whose names embed a
// provider id or role into overrides, for example
// NAMESMITH_AILINK_PROVIDERS_NAMESMITH_OPENAI_CREDENTIALS_0_API_KEY and
// NAMESMITH_AILINK_ROUTING_NAME_GENERATION. Underscores in ids and roles
// become hyphens.
func applyAILinkDynamicEnvOverrides(prefix string, overrides map[string]any) {
	providersPrefix := prefix + "AILINK_PROVIDERS_"
	routingPrefix := prefix + "AILINK_ROUTING_"

	for _, item := range os.Environ() {
		key, value, _ := strings.Cut(item, "=")
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(key, providersPrefix); ok {
			setProviderValue(overrides, strings.Split(rest, "_"), value)
		} else if rest, ok := strings.CutPrefix(key, routingPrefix); ok {
			if role := toSlug(rest); role != "" {
				nested(nested(overrides, "ailink"), "routing")[role] = value
			}
		}
	}
}

// setProviderValue finds the shortest provider id prefix whose remainder
// names a known field.
func setProviderValue(overrides map[string]any, tokens []string, value string) {
	for i := 1; i < len(tokens); i++ {
		id := toSlug(strings.Join(tokens[:i], "_"))
		if id == "" {
			continue
		}
		if apply := providerSetter(tokens[i:], value); apply != nil {
			providers := nested(nested(overrides, "ailink"), "providers")
			apply(nested(providers, id))
			return
		}
	}
}

func providerSetter(rest []string, value string) func(map[string]any) {
	for _, f := range providerFields {
		if slices.Equal(rest, f.tokens) {
			return func(p map[string]any) { p[f.key] = f.parse(value) }
		}
	}

	switch {
	case len(rest) >= 2 && rest[0] == "MODELS":
		return func(p map[string]any) {
			nested(p, "models")[strings.ToLower(strings.Join(rest[1:], "_"))] = value
		}
	case len(rest) >= 3 && rest[0] == "CREDENTIALS":
		idx, err := strconv.Atoi(rest[1])
		if err != nil || idx < 0 {
			return nil
		}
		field := strings.ToLower(strings.Join(rest[2:], "_"))
		return func(p map[string]any) {
			cred := credentialAt(p, idx)
			switch field {
			case "enabled":
				cred[field] = parseBool(value)
			case "priority":
				if n, err := strconv.Atoi(value); err == nil {
					cred[field] = n
					return
				}
				cred[field] = value
			default:
				cred[field] = value
			}
		}
	}
	return nil
}

func nested(parent map[string]any, key string) map[string]any {
	if m, ok := parent[key].(map[string]any); ok {
		return m
	}
	m := map[string]any{}
	parent[key] = m
	return m
}

// credentialAt grows the provider's credentials list to hold idx.
func credentialAt(provider map[string]any, idx int) map[string]any {
	creds, _ := provider["credentials"].([]any)
	for len(creds) <= idx {
		creds = append(creds, map[string]any{})
	}
	provider["credentials"] = creds
	if m, ok := creds[idx].(map[string]any); ok {
		return m
	}
	m := map[string]any{}
	creds[idx] = m
	return m
}

func parseBool(v string) any { return strings.EqualFold(v, "true") }
func lower(v string) any     { return strings.ToLower(v) }
func trimmed(v string) any   { return v }

func toSlug(raw string) string {
	parts := strings.FieldsFunc(strings.ToLower(raw), func(r rune) bool { return r == '_' })
	return strings.Join(parts, "-")
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
