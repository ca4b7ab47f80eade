package httpx

import (
	"math"
	"math/rand"
	"strconv"
	"time"
)

// Config holds retry and throttling configuration for outbound requests
type Config struct {
	RequestsPerSecond int `json:"requestsPerSecond"`
	BurstSize         int `json:"burstSize"`
	MaxRetries        int `json:"maxRetries"`
	InitialBackoffMs  int `json:"initialBackoffMs"`
	MaxBackoffMs      int `json:"maxBackoffMs"`
}

// DefaultConfig returns the default outbound request configuration
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10,
		BurstSize:         20,
		MaxRetries:        3,
		InitialBackoffMs:  100,
		MaxBackoffMs:      30000,
	}
}

// RetryError is returned when all retry attempts are exhausted
type RetryError struct {
	URL        string
	Attempts   int
	LastStatus int
	LastError  error
}

func (e *RetryError) Error() string {
	msg := "failed to fetch " + e.URL + " after " + strconv.Itoa(e.Attempts) + " attempts"
	if e.LastStatus != 0 {
		msg += " (HTTP " + strconv.Itoa(e.LastStatus) + ")"
	}
	if e.LastError != nil {
		msg += ": " + e.LastError.Error()
	}
	return msg
}

func (e *RetryError) Unwrap() error {
	return e.LastError
}

// IsRetryableStatus reports whether an HTTP status warrants a retry.
// Retryable: 429 and 5xx.
func IsRetryableStatus(status int) bool {
	return status == 429 || (status >= 500 && status < 600)
}

// CalculateBackoff returns the exponential backoff delay for an attempt,
// with 0-25% jitter against thundering herds.
func CalculateBackoff(attempt int, cfg Config) time.Duration {
	delay := float64(cfg.InitialBackoffMs) * math.Pow(2.0, float64(attempt))
	delay = math.Min(delay, float64(cfg.MaxBackoffMs))
	jitter := rand.Float64() * 0.25 * delay
	return time.Duration(delay+jitter) * time.Millisecond
}

// CalculateRateLimitBackoff returns the backoff for HTTP 429 responses:
// the server's Retry-After when present, otherwise a steeper (3x)
// exponential curve.
func CalculateRateLimitBackoff(attempt int, cfg Config, retryAfter string) time.Duration {
	if retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
			return time.Duration(seconds)*time.Second + time.Duration(rand.Intn(1000))*time.Millisecond
		}
	}

	delay := float64(cfg.InitialBackoffMs) * math.Pow(3.0, float64(attempt))
	delay = math.Min(delay, float64(cfg.MaxBackoffMs))
	jitter := rand.Float64() * 0.25 * delay
	return time.Duration(delay+jitter) * time.Millisecond
}
