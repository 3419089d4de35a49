package prompt

import (
	"embed"
	"fmt"
)

//go:embed prompts/*.md
var defaultPromptsFS embed.FS

// LoadDefaults loads the embedded guidance set.
func LoadDefaults() ([]*Prompt, error) {
	entries, err := defaultPromptsFS.ReadDir("prompts")
	if err != nil {
		return nil, fmt.Errorf("read embedded prompts: %w", err)
	}
	results := make([]*Prompt, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := defaultPromptsFS.ReadFile("prompts/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read embedded prompt %s: %w", entry.Name(), err)
		}
		p, err := Load(entry.Name(), data)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, nil
}

// DefaultRegistry builds a registry from embedded guidance.
func DefaultRegistry() (*InMemoryRegistry, error) {
	prompts, err := LoadDefaults()
	if err != nil {
		return nil, err
	}
	return NewRegistry(prompts)
}

// RegistryWithOverrides loads the embedded guidance and replaces any block
// that also exists in dir. An empty dir yields the embedded set.
func RegistryWithOverrides(dir string) (*InMemoryRegistry, error) {
	reg, err := DefaultRegistry()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return reg, nil
	}
	overrides, err := LoadFromDir(dir)
	if err != nil {
		return nil, err
	}
	reg.Put(overrides...)
	return reg, nil
}
