package reliability

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// IsRetryableHTTPStatus classifies retryable HTTP status codes.
func IsRetryableHTTPStatus(code int) bool {
	switch code {
	case 408, 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// IsWarmingUp recognises a hosted model that is still loading: a 503 whose
// body reports an estimated time or a loading error.
func IsWarmingUp(code int, body []byte) bool {
	if code != http.StatusServiceUnavailable {
		return false
	}
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err == nil {
		if _, ok := obj["estimated_time"]; ok {
			return true
		}
		msg, _ := obj["error"].(string)
		return strings.Contains(strings.ToLower(msg), "loading")
	}
	return strings.Contains(strings.ToLower(string(body)), "loading")
}

// ExponentialBackoff computes a deterministic capped backoff duration.
func ExponentialBackoff(attempt int, base, cap time.Duration) time.Duration {
	if attempt <= 0 {
		return base
	}
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= cap {
			return cap
		}
	}
	return d
}
