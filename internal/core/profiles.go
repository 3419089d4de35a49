package core

import (
	"sort"
	"strings"
)

// Profile names a set of extensions to check for every candidate.
type Profile struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Extensions  []string `json:"extensions"`
}

// DefaultProfile is used when no profile is configured.
const DefaultProfile = "default"

// BuiltInProfiles are the extension sets bundled with namesmith.
var BuiltInProfiles = []Profile{
	{
		Name:        DefaultProfile,
		Description: "The five extensions most brands check first",
		Extensions:  Extensions,
	},
	{
		Name:        "minimal",
		Description: "Just .com for a quick scan",
		Extensions:  []string{".com"},
	},
	{
		Name:        "startup",
		Description: "Extensions popular with software startups",
		Extensions:  []string{".com", ".io", ".ai", ".app", ".dev"},
	},
	{
		Name:        "website",
		Description: "Traditional website domains for general web presence",
		Extensions:  []string{".com", ".org", ".net"},
	},
}

// FindBuiltInProfile looks up a built-in profile by name.
func FindBuiltInProfile(name string) (*Profile, bool) {
	needle := strings.TrimSpace(strings.ToLower(name))
	if needle == "" {
		return nil, false
	}

	for _, profile := range BuiltInProfiles {
		if strings.EqualFold(profile.Name, needle) {
			copied := profile
			copied.Extensions = append([]string(nil), profile.Extensions...)
			return &copied, true
		}
	}

	return nil, false
}

// ProfileNames lists built-in profile names in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(BuiltInProfiles))
	for _, p := range BuiltInProfiles {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// NormalizeExtensions lowercases, dot-prefixes, and dedupes extensions,
// keeping first-seen order.
func NormalizeExtensions(exts []string) []string {
	seen := make(map[string]bool, len(exts))
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		ext = strings.TrimLeft(ext, ".")
		if ext == "" {
			continue
		}
		ext = "." + ext
		if seen[ext] {
			continue
		}
		seen[ext] = true
		out = append(out, ext)
	}
	return out
}
