package ailink

import "time"

// Config defines completion provider configuration.
type Config struct {
	DefaultProvider string `mapstructure:"default_provider"`

	// AttemptTimeout bounds a single completion attempt.
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	// RetryBaseDelay is multiplied by the attempt number to get the backoff.
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	Temperature    *float64      `mapstructure:"temperature"`

	// PromptsDir overrides the built-in industry and style guidance.
	PromptsDir string `mapstructure:"prompts_dir"`

	// Providers is a set of provider instances keyed by a user-defined id (slug).
	// Each instance declares its underlying provider type via AIProvider.
	Providers map[string]ProviderInstanceConfig `mapstructure:"providers"`

	Routing map[string]string `mapstructure:"routing"`
}

// ProviderInstanceConfig defines a configured provider instance (e.g. "namesmith-openai").
type ProviderInstanceConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// AIProvider is the provider type (e.g. "openai", "xai", "openai-compatible").
	AIProvider string `mapstructure:"ai_provider"`

	// SelectionPolicy controls which credential is chosen.
	// Supported values: "priority" (default), "round_robin".
	SelectionPolicy string `mapstructure:"selection_policy"`

	// DefaultCredential, if set, forces selecting the matching credential label.
	DefaultCredential string `mapstructure:"default_credential"`

	BaseURL string            `mapstructure:"base_url"`
	Models  map[string]string `mapstructure:"models"`
	Roles   []string          `mapstructure:"roles"`

	Credentials []CredentialConfig `mapstructure:"credentials"`
}

// CredentialConfig is a single credential for a provider instance.
type CredentialConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Label    string `mapstructure:"label"`
	APIKey   string `mapstructure:"api_key"`
	Priority int    `mapstructure:"priority"`
}

// Defaults used when configuration leaves a value unset.
const (
	DefaultAttemptTimeout = 30 * time.Second
	DefaultMaxRetries     = 3
	DefaultRetryBaseDelay = time.Second
	DefaultMaxTokens      = 2000
)
