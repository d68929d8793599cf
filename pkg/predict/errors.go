package predict

import (
	"fmt"
	"time"
)

// PredictionUnavailableError means the remote prediction service could not
// produce a usable answer after all retry attempts. Callers recover by
// substituting the rule fallback classifier.
type PredictionUnavailableError struct {
	Attempts int
	Elapsed  time.Duration
	LastErr  error
}

func (e *PredictionUnavailableError) Error() string {
	return fmt.Sprintf("prediction service unavailable after %d attempts (%v): %v", e.Attempts, e.Elapsed, e.LastErr)
}

func (e *PredictionUnavailableError) Unwrap() error {
	return e.LastErr
}

// MalformedResponseError means the remote service answered but the payload
// failed validation. Retryable, but logged apart from plain unavailability
// since it points at a format defect rather than a down service.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed prediction response: %s", e.Reason)
}

// RequestRejectedError means the service answered with a client-error status.
// The request itself is invalid, so no retry is attempted.
type RequestRejectedError struct {
	StatusCode int
}

func (e *RequestRejectedError) Error() string {
	return fmt.Sprintf("prediction request rejected with status %d", e.StatusCode)
}

// BatchSizeError means a batch call exceeded the configured size limit.
type BatchSizeError struct {
	Size int
	Max  int
}

func (e *BatchSizeError) Error() string {
	return fmt.Sprintf("batch of %d readings exceeds limit of %d", e.Size, e.Max)
}
