package prompt

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry provides access to guidance blocks.
type Registry interface {
	Get(slug string) (*Prompt, error)
	List() []*Prompt
}

// InMemoryRegistry stores guidance blocks by slug.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	prompts map[string]*Prompt
}

// NewRegistry builds a registry from prompts.
func NewRegistry(prompts []*Prompt) (*InMemoryRegistry, error) {
	reg := &InMemoryRegistry{prompts: make(map[string]*Prompt)}
	for _, p := range prompts {
		if p == nil {
			continue
		}
		slug := strings.TrimSpace(p.Config.Slug)
		if slug == "" {
			return nil, fmt.Errorf("prompt missing slug")
		}
		if _, ok := reg.prompts[slug]; ok {
			return nil, fmt.Errorf("duplicate prompt slug: %s", slug)
		}
		reg.prompts[slug] = p
	}
	return reg, nil
}

// Put adds or replaces prompts by slug.
func (r *InMemoryRegistry) Put(prompts ...*Prompt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range prompts {
		if p == nil || strings.TrimSpace(p.Config.Slug) == "" {
			continue
		}
		r.prompts[p.Config.Slug] = p
	}
}

// Get returns the prompt for the slug.
func (r *InMemoryRegistry) Get(slug string) (*Prompt, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry not configured")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("prompt slug is required")
	}
	r.mu.RLock()
	p, ok := r.prompts[slug]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("prompt %q not found", slug)
	}
	return p, nil
}

// List returns prompts sorted by slug.
func (r *InMemoryRegistry) List() []*Prompt {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]*Prompt, 0, len(r.prompts))
	for _, p := range r.prompts {
		items = append(items, p)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Config.Slug < items[j].Config.Slug
	})
	return items
}

// Keys returns the sorted keys registered for kind.
func Keys(r Registry, kind Kind) []string {
	if r == nil {
		return nil
	}
	keys := []string{}
	for _, p := range r.List() {
		if p.Config.Kind == kind {
			keys = append(keys, p.Config.Key)
		}
	}
	sort.Strings(keys)
	return keys
}
