package prompt

import (
	"fmt"
	"strings"
	"sync"
)

const persona = `You are an expert brand strategist and naming consultant. You have created memorable, distinctive names for startups and established companies across many industries, and you balance creativity with practical concerns such as pronunciation, spelling, and domain availability.`

const instructions = `Generate exactly %d unique name suggestions.

Respond with only a JSON object in this exact shape, with no commentary before or after it:
{"names": [{"name": "ExampleName", "explanation": "Why this name fits the brief", "brandability_score": 8, "caveats": ["Any potential concern"]}]}

Requirements for every entry:
- "name": a single brandable name without a domain extension
- "explanation": one or two sentences on meaning and fit
- "brandability_score": an integer from 1 to 10
- "caveats": a list of potential issues such as similar existing brands or spelling ambiguity; use an empty list when there are none`

// Composer assembles generation prompts from a guidance registry.
type Composer struct {
	Registry Registry
}

// NewComposer returns a composer over reg.
func NewComposer(reg Registry) *Composer {
	return &Composer{Registry: reg}
}

// Build returns the full prompt text. Unknown industries and styles
// contribute an empty guidance block.
func (c *Composer) Build(keywords []string, industry, style string, count int) string {
	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\nKeywords: ")
	b.WriteString(strings.Join(cleanKeywords(keywords), ", "))
	b.WriteString("\n")

	if guidance := c.guidance(KindIndustry, industry); guidance != "" {
		fmt.Fprintf(&b, "\nIndustry guidance (%s):\n%s\n", normalizeKey(industry), guidance)
	}
	if guidance := c.guidance(KindStyle, style); guidance != "" {
		fmt.Fprintf(&b, "\nStyle guidance (%s):\n%s\n", normalizeKey(style), guidance)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, instructions, count)
	return b.String()
}

// guidance returns the guidance text for kind and key, or "" when unknown.
func (c *Composer) guidance(kind Kind, key string) string {
	if c == nil || c.Registry == nil {
		return ""
	}
	key = normalizeKey(key)
	if key == "" {
		return ""
	}
	p, err := c.Registry.Get(SlugFor(kind, key))
	if err != nil || p == nil {
		return ""
	}
	return strings.TrimSpace(p.Config.Guidance)
}

var defaultComposer = sync.OnceValue(func() *Composer {
	reg, err := DefaultRegistry()
	if err != nil {
		return NewComposer(nil)
	}
	return NewComposer(reg)
})

// BuildPrompt composes a prompt using the embedded guidance set.
func BuildPrompt(keywords []string, industry, style string, count int) string {
	return defaultComposer().Build(keywords, industry, style, count)
}

func cleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if keyword = strings.TrimSpace(keyword); keyword != "" {
			out = append(out, keyword)
		}
	}
	return out
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
