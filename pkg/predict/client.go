package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"minesafe.xyz/mine-monitor-service/pkg/common"
	"minesafe.xyz/mine-monitor-service/pkg/models"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxAttempts  = 3
	DefaultBackoffBase  = 1 * time.Second
	DefaultMaxBatchSize = 50

	breakerConsecutiveFailures = 3
	breakerCooldown            = 30 * time.Second
)

type Options struct {
	BaseURL      string
	Timeout      time.Duration // per attempt
	MaxAttempts  int
	BackoffBase  time.Duration
	MaxBatchSize int
	HTTPClient   *http.Client
}

// Client wraps the external prediction service with per-attempt timeouts,
// retry with exponential backoff, response validation and a circuit breaker.
type Client struct {
	baseURL      string
	timeout      time.Duration
	maxAttempts  int
	backoffBase  time.Duration
	maxBatchSize int
	httpClient   *http.Client
	breaker      *gobreaker.CircuitBreaker
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = DefaultBackoffBase
	}
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = DefaultMaxBatchSize
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}

	c := &Client{
		baseURL:      opts.BaseURL,
		timeout:      opts.Timeout,
		maxAttempts:  opts.MaxAttempts,
		backoffBase:  opts.BackoffBase,
		maxBatchSize: opts.MaxBatchSize,
		httpClient:   opts.HTTPClient,
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "prediction-service",
		MaxRequests: 1,
		Timeout:     breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			// A 4xx means the service is up and rejected us; only full
			// unavailability should trip the breaker.
			var rejected *RequestRejectedError
			return err == nil || errors.As(err, &rejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			common.GetLoggerWith(common.LoggerNamePredictClient).Warn("Prediction breaker state changed",
				zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})

	return c
}

func (c *Client) MaxBatchSize() int {
	return c.maxBatchSize
}

type predictRequest struct {
	SensorID  string          `json:"sensor_id"`
	Timestamp time.Time       `json:"timestamp"`
	Features  models.Features `json:"features"`
}

type predictResponse struct {
	RiskLevel           string   `json:"risk_level"`
	Confidence          float64  `json:"confidence"`
	ContributingFactors []string `json:"contributing_factors"`
	ModelVersion        string   `json:"model_version"`
	Error               string   `json:"error,omitempty"`
}

type batchRequest struct {
	Readings []predictRequest `json:"readings"`
}

type batchResponse struct {
	Results []predictResponse `json:"results"`
}

// Predict classifies one feature vector via the remote service. It fails with
// *PredictionUnavailableError once retries are exhausted or the breaker is
// open, and with *RequestRejectedError on a client-error status (not retried).
func (c *Client) Predict(ctx context.Context, sensorID string, ts time.Time, features *models.Features) (*Classification, error) {
	start := time.Now()

	res, err := c.breaker.Execute(func() (any, error) {
		return c.callWithRetry(ctx, start, func(attemptCtx context.Context) (any, error) {
			data, err := c.postJSON(attemptCtx, "/predict", predictRequest{
				SensorID:  sensorID,
				Timestamp: ts,
				Features:  *features,
			})
			if err != nil {
				return nil, err
			}
			return parseClassification(data)
		})
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &PredictionUnavailableError{Attempts: 0, Elapsed: time.Since(start), LastErr: err}
		}
		return nil, err
	}

	classification := res.(*Classification)
	classification.Elapsed = time.Since(start)
	return classification, nil
}

// BatchItem is one entry of a batch prediction call.
type BatchItem struct {
	SensorID  string
	Timestamp time.Time
	Features  *models.Features
}

// PredictBatch classifies up to MaxBatchSize feature vectors in one call. The
// returned slice is aligned with items; entries whose per-item result was
// invalid or errored are nil and are not retried individually.
func (c *Client) PredictBatch(ctx context.Context, items []BatchItem) ([]*Classification, error) {
	if len(items) > c.maxBatchSize {
		return nil, &BatchSizeError{Size: len(items), Max: c.maxBatchSize}
	}

	start := time.Now()
	logger := common.GetLoggerWith(common.LoggerNamePredictClient)

	req := batchRequest{
		Readings: common.Mapper(items, func(it BatchItem) predictRequest {
			return predictRequest{SensorID: it.SensorID, Timestamp: it.Timestamp, Features: *it.Features}
		}),
	}

	res, err := c.breaker.Execute(func() (any, error) {
		return c.callWithRetry(ctx, start, func(attemptCtx context.Context) (any, error) {
			data, err := c.postJSON(attemptCtx, "/predict/batch", req)
			if err != nil {
				return nil, err
			}
			var parsed batchResponse
			if err := json.Unmarshal(data, &parsed); err != nil {
				return nil, &MalformedResponseError{Reason: err.Error()}
			}
			if len(parsed.Results) != len(items) {
				return nil, &MalformedResponseError{
					Reason: fmt.Sprintf("expected %d results, got %d", len(items), len(parsed.Results)),
				}
			}
			return &parsed, nil
		})
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &PredictionUnavailableError{Attempts: 0, Elapsed: time.Since(start), LastErr: err}
		}
		return nil, err
	}

	parsed := res.(*batchResponse)
	elapsed := time.Since(start)
	classifications := make([]*Classification, len(items))
	for i, item := range parsed.Results {
		if item.Error != "" {
			logger.Warn("Batch item failed remotely", zap.Int("index", i), zap.String("error", item.Error))
			continue
		}
		classification, err := validateResponse(&item)
		if err != nil {
			logger.Warn("Batch item response malformed", zap.Int("index", i), zap.Error(err))
			continue
		}
		classification.Elapsed = elapsed
		classifications[i] = classification
	}
	return classifications, nil
}

// callWithRetry runs op up to maxAttempts times with exponential backoff
// (base, 2x base, 4x base, ...). A *RequestRejectedError aborts immediately.
func (c *Client) callWithRetry(ctx context.Context, start time.Time, op func(context.Context) (any, error)) (any, error) {
	logger := common.GetLoggerWith(common.LoggerNamePredictClient)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		res, err := op(attemptCtx)
		cancel()

		if err == nil {
			return res, nil
		}

		var rejected *RequestRejectedError
		if errors.As(err, &rejected) {
			logger.Warn("Prediction request rejected, not retrying",
				zap.Int("status", rejected.StatusCode), zap.Int("attempt", attempt))
			return nil, err
		}

		lastErr = err

		var malformed *MalformedResponseError
		if errors.As(err, &malformed) {
			logger.Warn("Malformed prediction response",
				zap.String("reason", malformed.Reason), zap.Int("attempt", attempt))
		} else {
			logger.Warn("Prediction attempt failed",
				zap.Error(err), zap.Int("attempt", attempt))
		}

		if attempt < c.maxAttempts {
			delay := c.backoffBase << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, &PredictionUnavailableError{Attempts: attempt, Elapsed: time.Since(start), LastErr: ctx.Err()}
			}
		}
	}

	return nil, &PredictionUnavailableError{Attempts: c.maxAttempts, Elapsed: time.Since(start), LastErr: lastErr}
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return data, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, &RequestRejectedError{StatusCode: resp.StatusCode}
	default:
		return nil, fmt.Errorf("prediction service returned status %d", resp.StatusCode)
	}
}

func parseClassification(data []byte) (*Classification, error) {
	var resp predictResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &MalformedResponseError{Reason: err.Error()}
	}
	return validateResponse(&resp)
}

func validateResponse(resp *predictResponse) (*Classification, error) {
	level := models.RiskLevel(resp.RiskLevel)
	switch level {
	case models.RiskLevelLow, models.RiskLevelMedium, models.RiskLevelHigh:
	default:
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("unknown risk_level %q", resp.RiskLevel)}
	}
	if resp.Confidence < 0 || resp.Confidence > 1 {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("confidence %v outside [0,1]", resp.Confidence)}
	}
	return &Classification{
		RiskLevel:    level,
		Confidence:   resp.Confidence,
		Factors:      resp.ContributingFactors,
		ModelVersion: resp.ModelVersion,
	}, nil
}
