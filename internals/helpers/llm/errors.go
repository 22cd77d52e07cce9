package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Op names the upstream call that failed.
const (
	OpGenerate   = "generate"
	OpTranscribe = "transcribe"
)

// ErrRateLimit is a 429 from the provider. The retry loop waits RetryAfter
// when it is set; once retries run out the API answers 429 as well.
type ErrRateLimit struct {
	Op         string
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("ai %s rate limited: %v", opName(e.Op), e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse: the reply did not match the evaluation schema.
// Content keeps the raw reply so the PASS/FAIL text fallback can still read it.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("ai reply not usable: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

type ErrProviderUnavailable struct {
	Op  string
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ai %s unavailable", opName(e.Op))
	}
	return fmt.Sprintf("ai %s unavailable: %v", opName(e.Op), e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded is a reply cut off at the token cap. Never retried.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "ai reply truncated at max tokens"
}

// Status is the HTTP status an API handler answers with for an upstream
// failure, and the wait to advertise in Retry-After. Zero status means err
// did not come from the provider.
func Status(err error) (int, time.Duration) {
	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return http.StatusTooManyRequests, rl.RetryAfter
	}
	var (
		down  *ErrProviderUnavailable
		bad   *ErrInvalidResponse
		trunc *ErrMaxTokensExceeded
	)
	if errors.As(err, &down) || errors.As(err, &bad) || errors.As(err, &trunc) {
		return http.StatusBadGateway, 0
	}
	return 0, 0
}

func opName(op string) string {
	if op == "" {
		return OpGenerate
	}
	return op
}
