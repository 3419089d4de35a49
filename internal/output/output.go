package output

import (
	"fmt"
	"strings"

	"github.com/namelens/namesmith/internal/core"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ScoreReport pairs a name with its brandability analysis.
type ScoreReport struct {
	Name     string                    `json:"name"`
	Analysis core.BrandabilityAnalysis `json:"analysis"`
}

// Formatter renders engine results.
type Formatter interface {
	FormatCandidates(candidates []core.NameCandidate) (string, error)
	FormatDomains(results []*core.DomainAvailabilityResult) (string, error)
	FormatScores(reports []ScoreReport) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}
