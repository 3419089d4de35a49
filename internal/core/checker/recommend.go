package checker

import (
	"fmt"

	"github.com/namelens/namesmith/internal/core"
)

// PremiumPriceThreshold marks prices worth a cost note.
const PremiumPriceThreshold = 100.0

// Recommend builds advice for a result, walking extensions in order.
func Recommend(result *core.DomainAvailabilityResult, exts []string) []core.Recommendation {
	recs := []core.Recommendation{}
	if result == nil {
		return recs
	}
	base := result.BaseName

	switch {
	case result.Available[".com"]:
		recs = append(recs, core.Recommendation{
			Priority: core.PriorityHigh,
			Message:  fmt.Sprintf("%s.com is available", base),
			Action:   fmt.Sprintf("Secure %s.com immediately", base),
		})
	case result.Available[".ai"]:
		recs = append(recs, core.Recommendation{
			Priority: core.PriorityMedium,
			Message:  fmt.Sprintf("%s.com is taken but %s.ai is available, a strong fit for AI and tech brands", base, base),
			Action:   fmt.Sprintf("Consider registering %s.ai", base),
		})
	case result.Available[".io"]:
		recs = append(recs, core.Recommendation{
			Priority: core.PriorityMedium,
			Message:  fmt.Sprintf("%s.com is taken but %s.io is available, popular with developer tools and startups", base, base),
			Action:   fmt.Sprintf("Consider registering %s.io", base),
		})
	}

	if !result.AnyAvailable() {
		recs = append(recs, core.Recommendation{
			Priority: core.PriorityHigh,
			Message:  fmt.Sprintf("No checked extension is available for %s", base),
			Action:   "Modify the name with a prefix, suffix, or alternate spelling and check again",
		})
	}

	for _, ext := range exts {
		price, ok := result.Prices[ext]
		if !ok || !result.Available[ext] || price <= PremiumPriceThreshold {
			continue
		}
		currency := ""
		if d := result.Details[ext]; d != nil && d.Currency != "" {
			currency = " " + d.Currency
		}
		recs = append(recs, core.Recommendation{
			Priority: core.PriorityLow,
			Message:  fmt.Sprintf("%s%s is priced at %.2f%s", base, ext, price, currency),
			Action:   "Budget for premium registration and renewal costs",
		})
	}
	return recs
}
