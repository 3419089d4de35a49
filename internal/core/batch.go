package core

import (
	"strings"
	"time"
)

// DegradedAvailability is the well-formed result reported for a name whose
// check failed. The name is cleaned the same way a successful check cleans it.
func DegradedAvailability(baseName string, at time.Time, message string) *DomainAvailabilityResult {
	baseName = Sanitize(baseName)
	primary := ""
	if baseName != "" {
		primary = baseName + Extensions[0]
	}
	return &DomainAvailabilityResult{
		BaseName:        baseName,
		PrimaryDomain:   primary,
		Available:       map[string]bool{},
		Prices:          map[string]float64{},
		Recommendations: []Recommendation{},
		CheckedAt:       at,
		Error:           true,
		Message:         message,
	}
}

// BatchSummary counts outcomes across a batch of availability results.
type BatchSummary struct {
	Total        int `json:"total"`
	WithDotCom   int `json:"with_dot_com"`
	AnyAvailable int `json:"any_available"`
	Errors       int `json:"errors"`
}

// Summarize tallies a batch.
func Summarize(results []*DomainAvailabilityResult) BatchSummary {
	summary := BatchSummary{Total: len(results)}
	for _, r := range results {
		if r == nil || r.Error {
			summary.Errors++
			continue
		}
		if r.Available[".com"] {
			summary.WithDotCom++
		}
		if r.AnyAvailable() {
			summary.AnyAvailable++
		}
	}
	return summary
}

// SingleDomainResult wraps one domain check as a one-extension result so it
// can be reported alongside full availability results.
func SingleDomainResult(check *DomainCheck) *DomainAvailabilityResult {
	if check == nil {
		return DegradedAvailability("", time.Time{}, "no domain check")
	}
	ext := check.Extension
	base := strings.TrimSuffix(check.Domain, ext)
	result := &DomainAvailabilityResult{
		BaseName:        base,
		PrimaryDomain:   check.Domain,
		Available:       map[string]bool{ext: check.Available},
		Prices:          map[string]float64{},
		Details:         map[string]*DomainCheck{ext: check},
		Recommendations: []Recommendation{},
		CheckedAt:       check.CheckedAt,
	}
	if check.Available && check.Price != nil {
		result.Prices[ext] = *check.Price
	}
	return result
}
