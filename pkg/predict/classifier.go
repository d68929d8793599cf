package predict

import (
	"context"
	"time"

	"minesafe.xyz/mine-monitor-service/pkg/models"
)

// Classification is the outcome of classifying one feature vector.
type Classification struct {
	RiskLevel    models.RiskLevel
	Confidence   float64
	Factors      []string
	ModelVersion string
	Elapsed      time.Duration
}

// Classifier turns a feature vector into a risk classification. Two
// interchangeable strategies exist: RemoteClassifier, which delegates to the
// external prediction service, and FallbackClassifier, a local rule table.
type Classifier interface {
	Classify(ctx context.Context, sensorID string, ts time.Time, features *models.Features) (*Classification, error)
}

// RemoteClassifier delegates to the prediction service via Client. It does not
// retry on its own; retries are the Client's responsibility. Any error it
// returns means the caller should select the fallback strategy.
type RemoteClassifier struct {
	Client *Client
}

func (rc *RemoteClassifier) Classify(ctx context.Context, sensorID string, ts time.Time, features *models.Features) (*Classification, error) {
	return rc.Client.Predict(ctx, sensorID, ts, features)
}
