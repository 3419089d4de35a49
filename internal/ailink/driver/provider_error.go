package driver

import "fmt"

// ProviderError is returned when a provider responds with a non-2xx status.
//
// RawResponse holds the provider's error body and must never include API keys.
type ProviderError struct {
	Provider    string
	StatusCode  int
	Message     string
	RawResponse []byte
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "provider error"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s request failed: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Message)
}

// Retryable reports whether the status warrants another attempt:
// rate limiting, request timeouts, and server-side failures.
func (e *ProviderError) Retryable() bool {
	if e == nil {
		return false
	}
	switch {
	case e.StatusCode == 0:
		return true
	case e.StatusCode == 408, e.StatusCode == 429:
		return true
	case e.StatusCode >= 500:
		return true
	default:
		return false
	}
}
