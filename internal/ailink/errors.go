package ailink

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/namelens/namesmith/internal/ailink/driver"
)

// RetryError is returned once a completion has exhausted its attempts.
// It unwraps to the error of the final attempt.
type RetryError struct {
	Attempts int
	Err      error
}

func (e *RetryError) Error() string {
	if e == nil {
		return "completion failed"
	}
	return fmt.Sprintf("completion failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorCode classifies a completion failure for HTTP and CLI surfaces.
type ErrorCode string

const (
	CodeTimeout     ErrorCode = "AI_TIMEOUT"
	CodeRateLimited ErrorCode = "AI_RATE_LIMITED"
	CodeAuth        ErrorCode = "AI_AUTH_FAILED"
	CodeBadRequest  ErrorCode = "AI_BAD_REQUEST"
	CodeUpstream    ErrorCode = "AI_UPSTREAM_ERROR"
	CodeTransport   ErrorCode = "AI_TRANSPORT_ERROR"
	CodeCanceled    ErrorCode = "AI_CANCELED"
)

// Classify maps a completion error to an ErrorCode.
func Classify(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return CodeCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}

	var perr *driver.ProviderError
	if errors.As(err, &perr) {
		switch {
		case perr.StatusCode == 401 || perr.StatusCode == 403:
			return CodeAuth
		case perr.StatusCode == 408:
			return CodeTimeout
		case perr.StatusCode == 429:
			return CodeRateLimited
		case perr.StatusCode >= 400 && perr.StatusCode < 500:
			return CodeBadRequest
		default:
			return CodeUpstream
		}
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return CodeTimeout
	}
	return CodeTransport
}

// retryable reports whether another attempt may succeed. Caller
// cancellation is never retried; attempt timeouts always are.
func retryable(parent context.Context, err error) bool {
	if err == nil || parent.Err() != nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var perr *driver.ProviderError
	if errors.As(err, &perr) {
		return perr.Retryable()
	}
	return true
}
