package core

import "time"

// Extensions are the TLDs checked for every candidate, in report order.
var Extensions = []string{".com", ".ai", ".io", ".org", ".net"}

// APISource identifies how a domain check was resolved.
type APISource string

const (
	SourcePrimary     APISource = "primary"
	SourceSecondary   APISource = "secondary"
	SourceDNSFallback APISource = "dns_fallback"
	SourceCache       APISource = "cache"
)

// Confidence grades how trustworthy an availability answer is.
type Confidence string

const (
	ConfidenceCertain Confidence = "certain"
	ConfidenceMedium  Confidence = "medium"
)

// NameCandidate is one generated name plus its enrichment.
type NameCandidate struct {
	Name              string                    `json:"name"`
	Explanation       string                    `json:"explanation"`
	BrandabilityScore float64                   `json:"brandability_score"`
	Caveats           []string                  `json:"caveats,omitempty"`
	Brandability      *BrandabilityAnalysis     `json:"brandability,omitempty"`
	DomainInfo        *DomainAvailabilityResult `json:"domain_info,omitempty"`
}

// BrandabilityAnalysis holds the five heuristic sub-scores and their mean.
type BrandabilityAnalysis struct {
	LengthScore        int      `json:"length_score"`
	PronunciationScore int      `json:"pronunciation_score"`
	MemorabilityScore  int      `json:"memorability_score"`
	UniquenessScore    int      `json:"uniqueness_score"`
	DomainFriendliness int      `json:"domain_friendliness"`
	OverallScore       float64  `json:"overall_score"`
	Recommendations    []string `json:"recommendations"`
}

// DomainCheck is the availability answer for one fully-qualified domain.
type DomainCheck struct {
	Domain     string     `json:"domain"`
	Extension  string     `json:"extension"`
	Available  bool       `json:"available"`
	Price      *float64   `json:"price,omitempty"`
	Currency   string     `json:"currency,omitempty"`
	APISource  APISource  `json:"api_source"`
	Confidence Confidence `json:"confidence"`
	Provider   string     `json:"provider,omitempty"`
	Message    string     `json:"message,omitempty"`
	CheckID    string     `json:"check_id"`
	CheckedAt  time.Time  `json:"checked_at"`
	FromCache  bool       `json:"from_cache"`
}

// DomainAvailabilityResult aggregates the checks for one base name.
type DomainAvailabilityResult struct {
	BaseName        string                  `json:"base_name"`
	PrimaryDomain   string                  `json:"primary_domain"`
	Available       map[string]bool         `json:"available"`
	Prices          map[string]float64      `json:"prices,omitempty"`
	Details         map[string]*DomainCheck `json:"details,omitempty"`
	Recommendations []Recommendation        `json:"recommendations"`
	CheckedAt       time.Time               `json:"checked_at"`
	Error           bool                    `json:"error,omitempty"`
	Message         string                  `json:"message,omitempty"`
}

// AnyAvailable reports whether at least one extension is free.
func (r *DomainAvailabilityResult) AnyAvailable() bool {
	if r == nil {
		return false
	}
	for _, ok := range r.Available {
		if ok {
			return true
		}
	}
	return false
}

// Priority ranks a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is an advisory note attached to a domain result.
type Recommendation struct {
	Priority Priority `json:"priority"`
	Message  string   `json:"message"`
	Action   string   `json:"action"`
}

// CacheEntry is a cached domain check with its insertion time.
type CacheEntry struct {
	Domain    string       `json:"domain"`
	Data      *DomainCheck `json:"data"`
	Timestamp time.Time    `json:"timestamp"`
}

// Expired reports whether the entry is older than ttl at now.
func (e *CacheEntry) Expired(now time.Time, ttl time.Duration) bool {
	if e == nil || e.Data == nil {
		return true
	}
	return now.Sub(e.Timestamp) >= ttl
}

// RateLimitState captures per-endpoint rate limiting state for registrar lookups.
type RateLimitState struct {
	RequestCount int
	WindowStart  time.Time
	BackoffUntil *time.Time
	Last429At    *time.Time
}
