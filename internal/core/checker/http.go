package checker

import (
	"net/http"
	"time"
)

func retryAfterHeader(resp *http.Response) time.Duration {
	if resp == nil || resp.Header == nil {
		return 0
	}
	return retryAfterValue(resp.Header.Get("Retry-After"))
}
