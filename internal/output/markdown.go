package output

import (
	"fmt"
	"strings"

	"github.com/namelens/namesmith/internal/core"
)

// MarkdownFormatter renders results as markdown tables.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) FormatCandidates(candidates []core.NameCandidate) (string, error) {
	var sb strings.Builder
	sb.WriteString("## Name candidates\n\n")
	sb.WriteString("| # | Name | Score | Brandability | Domains | Explanation |\n")
	sb.WriteString("|---|------|-------|--------------|---------|-------------|\n")
	for i, c := range candidates {
		sb.WriteString(fmt.Sprintf("| %d | %s | %.1f | %s | %s | %s |\n",
			i+1,
			escapeMarkdownCell(c.Name),
			c.BrandabilityScore,
			overallScore(c),
			escapeMarkdownCell(availabilityLine(c.DomainInfo)),
			escapeMarkdownCell(c.Explanation),
		))
	}
	return sb.String(), nil
}

func (f *MarkdownFormatter) FormatDomains(results []*core.DomainAvailabilityResult) (string, error) {
	sections := make([]string, 0, len(results))
	for _, result := range results {
		if result == nil {
			continue
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("## %s availability\n\n", escapeMarkdownCell(result.BaseName)))
		if result.Error {
			sb.WriteString(fmt.Sprintf("**Error**: %s\n", escapeMarkdownCell(result.Message)))
			sections = append(sections, sb.String())
			continue
		}

		sb.WriteString("| Domain | Status | Price | Source | Confidence |\n")
		sb.WriteString("|--------|--------|-------|--------|------------|\n")
		for _, ext := range orderedExtensions(result) {
			check := result.Details[ext]
			domain := result.BaseName + ext
			confidence := "-"
			if check != nil {
				domain = check.Domain
				confidence = string(check.Confidence)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
				escapeMarkdownCell(domain),
				statusLabel(check),
				escapeMarkdownCell(priceLabel(check)),
				escapeMarkdownCell(sourceLabel(check)),
				confidence,
			))
		}
		sb.WriteString(fmt.Sprintf("\n**Summary**: %s\n", summaryLine(result)))

		if len(result.Recommendations) > 0 {
			sb.WriteString("\n")
			for _, rec := range result.Recommendations {
				sb.WriteString(fmt.Sprintf("- **%s**: %s", rec.Priority, rec.Message))
				if rec.Action != "" {
					sb.WriteString(" (" + rec.Action + ")")
				}
				sb.WriteString("\n")
			}
		}
		sections = append(sections, sb.String())
	}
	return strings.Join(sections, "\n"), nil
}

func (f *MarkdownFormatter) FormatScores(reports []ScoreReport) (string, error) {
	sections := make([]string, 0, len(reports))
	for _, report := range reports {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("## %s brandability\n\n", escapeMarkdownCell(report.Name)))
		sb.WriteString("| Metric | Score |\n|--------|-------|\n")
		for _, row := range scoreRows(report.Analysis) {
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", row[0], row[1]))
		}
		for _, rec := range report.Analysis.Recommendations {
			sb.WriteString("\n- " + escapeMarkdownCell(rec))
		}
		sections = append(sections, sb.String())
	}
	return strings.Join(sections, "\n\n"), nil
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
