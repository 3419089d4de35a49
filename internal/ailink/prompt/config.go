package prompt

// Kind classifies a guidance block.
type Kind string

const (
	KindIndustry Kind = "industry"
	KindStyle    Kind = "style"
)

// Config describes a guidance block loaded from a markdown file with YAML frontmatter.
type Config struct {
	Slug        string `yaml:"slug" json:"slug"`
	Kind        Kind   `yaml:"kind" json:"kind"`
	Key         string `yaml:"key" json:"key"`
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`
	Guidance    string `yaml:"guidance,omitempty" json:"guidance,omitempty"`
}

// Prompt wraps a validated guidance block with its source.
type Prompt struct {
	Config Config
	Source string
}

// SlugFor returns the registry slug for a kind and key, e.g. "industry-tech".
func SlugFor(kind Kind, key string) string {
	return string(kind) + "-" + key
}
