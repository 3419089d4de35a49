package prompt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/gofulmen/schema"
	"gopkg.in/yaml.v3"
)

const guidanceSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["slug", "kind", "key", "guidance"],
  "properties": {
    "slug": {"type": "string", "pattern": "^[a-z]+-[a-z0-9-]+$"},
    "kind": {"type": "string", "enum": ["industry", "style"]},
    "key": {"type": "string", "minLength": 1},
    "guidance": {"type": "string", "minLength": 1}
  }
}`

var frontmatterFence = []byte("---")

// Load parses one guidance block. The input is either plain YAML or
// markdown with YAML frontmatter, in which case the body is the guidance
// unless the frontmatter sets it.
func Load(source string, data []byte) (*Prompt, error) {
	cfg, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, fmt.Errorf("parse prompt %s: %w", source, err)
	}

	cfg.Key = strings.ToLower(strings.TrimSpace(cfg.Key))
	if strings.TrimSpace(cfg.Guidance) == "" {
		cfg.Guidance = strings.TrimSpace(body)
	}
	if cfg.Slug == "" && cfg.Key != "" {
		cfg.Slug = SlugFor(cfg.Kind, cfg.Key)
	}

	switch {
	case cfg.Kind != KindIndustry && cfg.Kind != KindStyle:
		return nil, fmt.Errorf("prompt %s has unknown kind %q", source, cfg.Kind)
	case cfg.Guidance == "":
		return nil, fmt.Errorf("prompt %s missing guidance", source)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate prompt %s: %w", source, err)
	}
	if want := SlugFor(cfg.Kind, cfg.Key); cfg.Slug != want {
		return nil, fmt.Errorf("validate prompt %s: slug %q does not match %q", source, cfg.Slug, want)
	}
	return &Prompt{Config: cfg, Source: source}, nil
}

// LoadFromDir loads every *.md file in dir, in name order.
func LoadFromDir(dir string) ([]*Prompt, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("scan prompts: %w", err)
	}
	prompts := make([]*Prompt, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path) // #nosec G304 -- operator-provided prompt directory
		if err != nil {
			return nil, fmt.Errorf("read prompt %s: %w", path, err)
		}
		p, err := Load(path, data)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, p)
	}
	return prompts, nil
}

func splitFrontmatter(data []byte) (Config, string, error) {
	var cfg Config
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return cfg, "", errors.New("empty prompt")
	}

	rest, fenced := bytes.CutPrefix(trimmed, frontmatterFence)
	if !fenced {
		if err := yaml.Unmarshal(trimmed, &cfg); err != nil {
			return cfg, "", fmt.Errorf("invalid yaml: %w", err)
		}
		return cfg, "", nil
	}

	front, body, closed := bytes.Cut(rest, append([]byte("\n"), frontmatterFence...))
	if !closed {
		front, body = rest, nil
	}
	if err := yaml.Unmarshal(front, &cfg); err != nil {
		return cfg, "", fmt.Errorf("invalid frontmatter: %w", err)
	}
	return cfg, string(body), nil
}

func validate(cfg Config) error {
	validator, err := schema.NewValidator([]byte(guidanceSchema))
	if err != nil {
		return fmt.Errorf("compile guidance schema: %w", err)
	}
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	diagnostics, err := validator.ValidateJSON(payload)
	if err != nil {
		return err
	}
	if len(diagnostics) > 0 {
		return fmt.Errorf("schema validation failed: %s", diagnostics[0].Message)
	}
	return nil
}
