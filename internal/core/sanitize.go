package core

import "strings"

// MaxLabelLength is the DNS label limit.
const MaxLabelLength = 63

// Sanitize turns a candidate name into a DNS label: lowercase, whitespace
// runs become one hyphen, anything outside [a-z0-9-] is dropped, and edge
// hyphens are trimmed.
func Sanitize(raw string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			space = true
			continue
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-':
		default:
			continue
		}
		if space {
			b.WriteByte('-')
			space = false
		}
		b.WriteRune(r)
	}

	label := strings.Trim(b.String(), "-")
	if len(label) > MaxLabelLength {
		label = strings.TrimRight(label[:MaxLabelLength], "-")
	}
	return label
}

// SanitizeDomain cleans a full domain label by label, so "Acme Corp.IO"
// becomes "acme-corp.io". It returns "" unless a name and at least one
// suffix label survive.
func SanitizeDomain(raw string) string {
	parts := strings.Split(strings.Trim(strings.TrimSpace(raw), "."), ".")
	labels := make([]string, 0, len(parts))
	for _, part := range parts {
		if label := Sanitize(part); label != "" {
			labels = append(labels, label)
		}
	}
	if len(labels) < 2 || Sanitize(parts[0]) == "" {
		return ""
	}
	return strings.Join(labels, ".")
}
