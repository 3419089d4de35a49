package output

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/namelens/namesmith/internal/core"
)

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("table")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	format, err = ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, format)

	format, err = ParseFormat("md")
	require.NoError(t, err)
	require.Equal(t, FormatMarkdown, format)

	format, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	_, err = ParseFormat("csv")
	require.Error(t, err)
}

func sampleResult() *core.DomainAvailabilityResult {
	price := 240.0
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &core.DomainAvailabilityResult{
		BaseName:      "zephyr",
		PrimaryDomain: "zephyr.com",
		Available:     map[string]bool{".com": false, ".ai": true, ".dev": true},
		Prices:        map[string]float64{".ai": price},
		Details: map[string]*core.DomainCheck{
			".com": {Domain: "zephyr.com", Extension: ".com", APISource: core.SourcePrimary, Confidence: core.ConfidenceCertain, Provider: "rdap", CheckedAt: now},
			".ai":  {Domain: "zephyr.ai", Extension: ".ai", Available: true, Price: &price, Currency: "USD", APISource: core.SourceSecondary, Confidence: core.ConfidenceCertain, Provider: "registrar", CheckedAt: now},
			".dev": {Domain: "zephyr.dev", Extension: ".dev", Available: true, APISource: core.SourceDNSFallback, Confidence: core.ConfidenceMedium, CheckedAt: now},
		},
		Recommendations: []core.Recommendation{
			{Priority: core.PriorityMedium, Message: "zephyr.ai is available", Action: "Consider registering zephyr.ai"},
		},
		CheckedAt: now,
	}
}

func TestOrderedExtensions(t *testing.T) {
	require.Equal(t, []string{".com", ".ai", ".dev"}, orderedExtensions(sampleResult()))
	require.Equal(t, ".com ✗ .ai ✓ .dev ✓", availabilityLine(sampleResult()))
	require.Equal(t, "-", availabilityLine(nil))
	require.Equal(t, "error", availabilityLine(&core.DomainAvailabilityResult{Error: true}))
}

func TestFormatDomains(t *testing.T) {
	results := []*core.DomainAvailabilityResult{sampleResult(), core.DegradedAvailability("Broken", time.Now(), "boom")}

	table, err := NewFormatter(FormatTable).FormatDomains(results)
	require.NoError(t, err)
	require.Contains(t, table, "zephyr.ai")
	require.Contains(t, table, "240.00 USD")
	require.Contains(t, table, "secondary (registrar)")
	require.Contains(t, table, "2/3 available")
	require.Contains(t, table, "[medium] zephyr.ai is available")
	require.Contains(t, table, "boom")

	md, err := NewFormatter(FormatMarkdown).FormatDomains(results)
	require.NoError(t, err)
	require.Contains(t, md, "## zephyr availability")
	require.Contains(t, md, "| zephyr.dev | available | - | dns_fallback | medium |")
	require.Contains(t, md, "**Error**: boom")

	raw, err := NewFormatter(FormatJSON).FormatDomains(results)
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Len(t, decoded, 2)
	require.Equal(t, "zephyr.com", decoded[0]["primary_domain"])
	require.Equal(t, true, decoded[1]["error"])
}

func TestFormatCandidates(t *testing.T) {
	candidates := []core.NameCandidate{
		{
			Name:              "Zephyr",
			Explanation:       "A light west wind | breezy",
			BrandabilityScore: 9,
			Brandability:      &core.BrandabilityAnalysis{OverallScore: 10},
			DomainInfo:        sampleResult(),
		},
		{Name: "Lumen", Explanation: "Light", BrandabilityScore: 7},
	}

	table, err := NewFormatter(FormatTable).FormatCandidates(candidates)
	require.NoError(t, err)
	require.Contains(t, table, "Zephyr")
	require.Contains(t, table, "10.0")
	require.Contains(t, table, "2 names")

	empty, err := NewFormatter(FormatTable).FormatCandidates(nil)
	require.NoError(t, err)
	require.Equal(t, "No names generated.", empty)

	md, err := NewFormatter(FormatMarkdown).FormatCandidates(candidates)
	require.NoError(t, err)
	require.Contains(t, md, `A light west wind \| breezy`)
	require.Contains(t, md, "| 2 | Lumen | 7.0 | - | - | Light |")

	raw, err := NewFormatter(FormatJSON).FormatCandidates(nil)
	require.NoError(t, err)
	require.Equal(t, "[]", raw)
}

func TestFormatScores(t *testing.T) {
	reports := []ScoreReport{{
		Name: "Zephyr",
		Analysis: core.BrandabilityAnalysis{
			LengthScore: 10, PronunciationScore: 10, MemorabilityScore: 10,
			UniquenessScore: 10, DomainFriendliness: 10, OverallScore: 10,
			Recommendations: []string{"Strong brandability"},
		},
	}}

	table, err := NewFormatter(FormatTable).FormatScores(reports)
	require.NoError(t, err)
	require.Contains(t, table, "Pronunciation")
	require.Contains(t, table, "- Strong brandability")

	md, err := NewFormatter(FormatMarkdown).FormatScores(reports)
	require.NoError(t, err)
	require.Contains(t, md, "| Overall | 10.0 |")
	require.True(t, strings.HasPrefix(md, "## Zephyr brandability"))
}
