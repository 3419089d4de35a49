package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/namelens/namesmith/internal/core"
)

// TableFormatter renders results as ASCII tables.
type TableFormatter struct{}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	return t
}

// FormatCandidates renders generated names, best first.
func (f *TableFormatter) FormatCandidates(candidates []core.NameCandidate) (string, error) {
	if len(candidates) == 0 {
		return "No names generated.", nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"#", "Name", "Score", "Brandability", "Domains", "Explanation"})
	for i, c := range candidates {
		t.AppendRow(table.Row{
			i + 1,
			c.Name,
			fmt.Sprintf("%.1f", c.BrandabilityScore),
			overallScore(c),
			availabilityLine(c.DomainInfo),
			truncate(c.Explanation, 60),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", fmt.Sprintf("%d names", len(candidates))})
	return t.Render(), nil
}

// FormatDomains renders one table per base name followed by its recommendations.
func (f *TableFormatter) FormatDomains(results []*core.DomainAvailabilityResult) (string, error) {
	rendered := make([]string, 0, len(results))
	for _, result := range results {
		if result == nil {
			continue
		}
		rendered = append(rendered, f.formatDomain(result))
	}
	return strings.Join(rendered, "\n\n"), nil
}

func (f *TableFormatter) formatDomain(result *core.DomainAvailabilityResult) string {
	t := newTable()
	t.SetTitle(result.BaseName)
	t.AppendHeader(table.Row{"Domain", "Status", "Price", "Source", "Confidence"})

	for _, ext := range orderedExtensions(result) {
		check := result.Details[ext]
		domain := result.BaseName + ext
		if check != nil {
			domain = check.Domain
		}
		confidence := "-"
		if check != nil {
			confidence = string(check.Confidence)
		}
		t.AppendRow(table.Row{domain, statusLabel(check), priceLabel(check), sourceLabel(check), confidence})
	}

	if result.Error {
		t.AppendFooter(table.Row{"", "error", "", "", result.Message})
	} else {
		t.AppendFooter(table.Row{"", summaryLine(result), "", "", ""})
	}

	var sb strings.Builder
	sb.WriteString(t.Render())
	for _, rec := range result.Recommendations {
		sb.WriteString(fmt.Sprintf("\n[%s] %s", rec.Priority, rec.Message))
		if rec.Action != "" {
			sb.WriteString(" -> " + rec.Action)
		}
	}
	return sb.String()
}

// FormatScores renders the sub-scores of each analysed name.
func (f *TableFormatter) FormatScores(reports []ScoreReport) (string, error) {
	rendered := make([]string, 0, len(reports))
	for _, report := range reports {
		t := newTable()
		t.SetTitle(report.Name)
		t.AppendHeader(table.Row{"Metric", "Score"})
		for _, row := range scoreRows(report.Analysis) {
			t.AppendRow(table.Row{row[0], row[1]})
		}

		var sb strings.Builder
		sb.WriteString(t.Render())
		for _, rec := range report.Analysis.Recommendations {
			sb.WriteString("\n- " + rec)
		}
		rendered = append(rendered, sb.String())
	}
	return strings.Join(rendered, "\n\n"), nil
}
