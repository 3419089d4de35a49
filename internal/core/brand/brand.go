// Package brand scores how brandable a name is using fixed heuristics.
package brand

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/namelens/namesmith/internal/core"
)

const (
	minScore = 1
	maxScore = 10

	// Sub-scores below this value produce a recommendation.
	recommendBelow = 7
)

var (
	fillerPrefix  = regexp.MustCompile(`(?i)^(get|my|the|app|web)`)
	commonSuffix  = regexp.MustCompile(`(?i)(ly|er|ing)$`)
	camelCompound = regexp.MustCompile(`[A-Z][a-z]+[A-Z][a-z]+`)
	invalidDomain = regexp.MustCompile(`[^a-zA-Z0-9-]`)
	digit         = regexp.MustCompile(`[0-9]`)
)

// GenericWords are business words that make a name blend in.
var GenericWords = []string{"app", "web", "tech", "digital", "online", "smart", "pro", "max", "plus"}

// Recommendation texts emitted when a sub-score falls below the threshold.
const (
	RecommendShorter     = "Consider a shorter name; five to eight characters is easiest to remember"
	RecommendPronounce   = "Improve pronunciation with a better vowel balance or simpler sounds"
	RecommendDistinctive = "Make the name more distinctive by avoiding generic business words"
)

// Analyze computes the brandability analysis for name. It is pure and safe
// for concurrent use.
func Analyze(name string) core.BrandabilityAnalysis {
	analysis := core.BrandabilityAnalysis{
		LengthScore:        LengthScore(name),
		PronunciationScore: PronunciationScore(name),
		MemorabilityScore:  MemorabilityScore(name),
		UniquenessScore:    UniquenessScore(name),
		DomainFriendliness: DomainFriendliness(name),
	}

	sum := analysis.LengthScore + analysis.PronunciationScore + analysis.MemorabilityScore +
		analysis.UniquenessScore + analysis.DomainFriendliness
	analysis.OverallScore = round1(float64(sum) / 5)

	recs := []string{}
	if analysis.LengthScore < recommendBelow {
		recs = append(recs, RecommendShorter)
	}
	if analysis.PronunciationScore < recommendBelow {
		recs = append(recs, RecommendPronounce)
	}
	if analysis.UniquenessScore < recommendBelow {
		recs = append(recs, RecommendDistinctive)
	}
	analysis.Recommendations = recs

	return analysis
}

// LengthScore buckets the character count.
func LengthScore(name string) int {
	n := utf8.RuneCountInString(name)
	switch {
	case n >= 5 && n <= 8:
		return 10
	case n >= 9 && n <= 12:
		return 8
	case n >= 3 && n <= 4:
		return 7
	case n >= 13 && n <= 15:
		return 6
	default:
		return 3
	}
}

// PronunciationScore buckets the vowel to length ratio. The letter y counts
// as a vowel.
func PronunciationScore(name string) int {
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return 5
	}

	vowels := 0
	for _, r := range strings.ToLower(name) {
		if strings.ContainsRune("aeiouy", r) {
			vowels++
		}
	}
	ratio := float64(vowels) / float64(n)

	switch {
	case ratio >= 0.30 && ratio <= 0.50:
		return 10
	case ratio >= 0.20 && ratio < 0.30:
		return 8
	case ratio > 0.50 && ratio <= 0.60:
		return 7
	default:
		return 5
	}
}

// MemorabilityScore starts at ten and adjusts for patterns that help or hurt recall.
func MemorabilityScore(name string) int {
	score := maxScore
	if hasTripleRun(strings.ToLower(name)) {
		score -= 2
	}
	if fillerPrefix.MatchString(name) {
		score -= 3
	}
	if commonSuffix.MatchString(name) {
		score--
	}
	if camelCompound.MatchString(name) {
		score += 2
	}
	if strings.ContainsAny(strings.ToLower(name), "xz") {
		score++
	}
	return clamp(score)
}

// UniquenessScore subtracts two for every generic word found in the name.
func UniquenessScore(name string) int {
	lower := strings.ToLower(name)
	score := maxScore
	for _, word := range GenericWords {
		if strings.Contains(lower, word) {
			score -= 2
		}
	}
	return clamp(score)
}

// DomainFriendliness penalizes characters and lengths that make poor domain labels.
func DomainFriendliness(name string) int {
	score := maxScore
	if invalidDomain.MatchString(name) {
		score -= 5
	}
	if strings.Contains(name, "-") {
		score -= 2
	}
	if digit.MatchString(name) {
		score--
	}
	if utf8.RuneCountInString(name) > 15 {
		score -= 3
	}
	return clamp(score)
}

// hasTripleRun reports a run of three or more identical characters.
// RE2 has no backreferences, so the run is counted directly.
func hasTripleRun(s string) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if run > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= 3 {
			return true
		}
		prev = r
	}
	return false
}

func clamp(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
