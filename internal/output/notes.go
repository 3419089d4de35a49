package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/namelens/namesmith/internal/core"
)

const (
	markAvailable = "✓"
	markTaken     = "✗"
)

// orderedExtensions lists the result's extensions, standard ones first.
func orderedExtensions(result *core.DomainAvailabilityResult) []string {
	if result == nil {
		return nil
	}
	seen := make(map[string]bool, len(result.Available))
	exts := make([]string, 0, len(result.Available))
	for _, ext := range core.Extensions {
		if _, ok := result.Available[ext]; ok {
			exts = append(exts, ext)
			seen[ext] = true
		}
	}
	rest := make([]string, 0)
	for ext := range result.Available {
		if !seen[ext] {
			rest = append(rest, ext)
		}
	}
	sort.Strings(rest)
	return append(exts, rest...)
}

// availabilityLine renders ".com ✓ .ai ✗" style summaries.
func availabilityLine(result *core.DomainAvailabilityResult) string {
	if result == nil {
		return "-"
	}
	if result.Error {
		return "error"
	}
	parts := make([]string, 0, len(result.Available))
	for _, ext := range orderedExtensions(result) {
		mark := markTaken
		if result.Available[ext] {
			mark = markAvailable
		}
		parts = append(parts, ext+" "+mark)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func statusLabel(check *core.DomainCheck) string {
	if check == nil {
		return "unknown"
	}
	if check.Available {
		return "available"
	}
	return "taken"
}

func priceLabel(check *core.DomainCheck) string {
	if check == nil || check.Price == nil {
		return "-"
	}
	currency := check.Currency
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%.2f %s", *check.Price, currency)
}

func sourceLabel(check *core.DomainCheck) string {
	if check == nil {
		return "-"
	}
	label := string(check.APISource)
	if check.Provider != "" && check.APISource != core.SourceCache {
		label += " (" + check.Provider + ")"
	}
	return label
}

func summaryLine(result *core.DomainAvailabilityResult) string {
	total := len(result.Available)
	free := 0
	for _, ok := range result.Available {
		if ok {
			free++
		}
	}
	return fmt.Sprintf("%d/%d available", free, total)
}

func overallScore(candidate core.NameCandidate) string {
	if candidate.Brandability == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", candidate.Brandability.OverallScore)
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if max <= 3 || len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}

func scoreRows(analysis core.BrandabilityAnalysis) [][2]string {
	return [][2]string{
		{"Length", fmt.Sprint(analysis.LengthScore)},
		{"Pronunciation", fmt.Sprint(analysis.PronunciationScore)},
		{"Memorability", fmt.Sprint(analysis.MemorabilityScore)},
		{"Uniqueness", fmt.Sprint(analysis.UniquenessScore)},
		{"Domain friendliness", fmt.Sprint(analysis.DomainFriendliness)},
		{"Overall", fmt.Sprintf("%.1f", analysis.OverallScore)},
	}
}
