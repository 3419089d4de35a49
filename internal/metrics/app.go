package metrics

import (
	"time"

	"github.com/namelens/namesmith/internal/observability"
)

// Application metric names.
const (
	OperationsTotal       = "app_operations_total"
	OperationsErrorsTotal = "app_operations_errors_total"
	HealthCheckTotal      = "app_health_check_total"
	HealthCheckDuration   = "app_health_check_duration_ms"
	ServerStartTime       = "app_server_start_time_seconds"
)

// RecordOperation counts an API operation (generate, score, domain, batch)
// by outcome.
func RecordOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	count(OperationsTotal, map[string]string{"operation": operation, "status": status})
}

// RecordOperationError counts a failed operation by envelope code.
func RecordOperationError(operation, errorType string) {
	count(OperationsErrorsTotal, map[string]string{"operation": operation, "error_type": errorType})
}

// RecordHealthCheck records one check run with its resolved state.
func RecordHealthCheck(checkName, status string, duration time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(HealthCheckTotal, 1, map[string]string{
		"check":  checkName,
		"status": status,
	})
	_ = observability.TelemetrySystem.Histogram(HealthCheckDuration, duration, map[string]string{
		"check": checkName,
	})
}

// SetServerStartTime records when serve started listening.
func SetServerStartTime(start time.Time) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Gauge(ServerStartTime, float64(start.Unix()), nil)
}
