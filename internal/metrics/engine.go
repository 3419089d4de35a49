package metrics

import (
	"strconv"
	"time"

	"github.com/namelens/namesmith/internal/observability"
)

// Engine metric names.
const (
	CompletionAttemptsTotal = "completion_attempts_total"
	CompletionDuration      = "completion_duration_ms"
	DomainLookupsTotal      = "domain_lookups_total"
	DomainCacheTotal        = "domain_cache_lookups_total"
	CandidatesLastParse     = "candidates_last_parse"
	ParseResultsTotal       = "parse_results_total"
	BatchGroupsTotal        = "batch_groups_total"
)

// RecordCompletionAttempt records one completion attempt and its outcome
// ("success", "retry", "failed").
func RecordCompletionAttempt(provider, outcome string, duration time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(CompletionAttemptsTotal, 1, map[string]string{
		"provider": provider,
		"outcome":  outcome,
	})
	_ = observability.TelemetrySystem.Histogram(CompletionDuration, duration, map[string]string{
		"provider": provider,
	})
}

// RecordDomainLookup records a resolved domain check by source.
func RecordDomainLookup(source string, available bool) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(DomainLookupsTotal, 1, map[string]string{
		"source":    source,
		"available": strconv.FormatBool(available),
	})
}

// RecordCacheLookup records a domain cache hit or miss.
func RecordCacheLookup(hit bool) {
	if observability.TelemetrySystem == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	_ = observability.TelemetrySystem.Counter(DomainCacheTotal, 1, map[string]string{"result": result})
}

// RecordParseResult records which parse path handled a completion.
func RecordParseResult(kind string, candidates int) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(ParseResultsTotal, 1, map[string]string{"kind": kind})
	_ = observability.TelemetrySystem.Gauge(CandidatesLastParse, float64(candidates), nil)
}

// RecordBatchGroup records a completed batch group.
func RecordBatchGroup(failed bool) {
	if observability.TelemetrySystem == nil {
		return
	}
	status := "ok"
	if failed {
		status = "failed"
	}
	_ = observability.TelemetrySystem.Counter(BatchGroupsTotal, 1, map[string]string{"status": status})
}
