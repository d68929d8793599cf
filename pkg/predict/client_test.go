package predict

import (
	"context"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minesafe.xyz/mine-monitor-service/pkg/common"
	"minesafe.xyz/mine-monitor-service/pkg/models"
	_ "minesafe.xyz/mine-monitor-service/pkg/testing"
)

const testBaseURL = "http://prediction.test"

func newTestClient(maxAttempts int) *Client {
	return NewClient(Options{
		BaseURL:     testBaseURL,
		Timeout:     200 * time.Millisecond,
		MaxAttempts: maxAttempts,
		BackoffBase: 10 * time.Millisecond,
	})
}

func testFeatures() *models.Features {
	return &models.Features{
		RainfallMm: 85.0,
		SlopeAngle: 62.0,
	}
}

func TestPredict(t *testing.T) {
	common.SetTestLoggerNop()

	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testBaseURL+"/predict",
		httpmock.NewStringResponder(200, `{
			"risk_level": "HIGH",
			"confidence": 0.91,
			"contributing_factors": ["Slope_Angle", "Rainfall_mm"],
			"model_version": "landslide-gb-v4"
		}`))

	client := newTestClient(3)
	c, err := client.Predict(context.Background(), "sensor-1", time.Now(), testFeatures())
	require.NoError(t, err)

	assert.Equal(t, models.RiskLevelHigh, c.RiskLevel)
	assert.Equal(t, 0.91, c.Confidence)
	assert.Equal(t, []string{"Slope_Angle", "Rainfall_mm"}, c.Factors)
	assert.Equal(t, "landslide-gb-v4", c.ModelVersion)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestPredict_RetriesServerErrors(t *testing.T) {
	common.SetTestLoggerNop()

	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testBaseURL+"/predict",
		httpmock.NewStringResponder(503, `{"error": "overloaded"}`))

	client := newTestClient(3)

	start := time.Now()
	_, err := client.Predict(context.Background(), "sensor-1", time.Now(), testFeatures())
	elapsed := time.Since(start)

	var unavailable *PredictionUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 3, unavailable.Attempts)
	assert.Equal(t, 3, httpmock.GetTotalCallCount())

	// backoff between attempts: base then doubled
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}

func TestPredict_RejectedNotRetried(t *testing.T) {
	common.SetTestLoggerNop()

	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testBaseURL+"/predict",
		httpmock.NewStringResponder(422, `{"error": "bad features"}`))

	client := newTestClient(3)
	_, err := client.Predict(context.Background(), "sensor-1", time.Now(), testFeatures())

	var rejected *RequestRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, 422, rejected.StatusCode)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestPredict_MalformedResponseRetried(t *testing.T) {
	common.SetTestLoggerNop()

	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	{
		// invalid JSON body
		httpmock.RegisterResponder("POST", testBaseURL+"/predict",
			httpmock.NewStringResponder(200, `{"risk_level": "HIGH", "confi`))

		client := newTestClient(2)
		_, err := client.Predict(context.Background(), "sensor-1", time.Now(), testFeatures())

		var unavailable *PredictionUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, 2, unavailable.Attempts)

		var malformed *MalformedResponseError
		require.ErrorAs(t, unavailable.LastErr, &malformed)

		assert.Equal(t, 2, httpmock.GetTotalCallCount())
	}

	httpmock.Reset()

	{
		// well-formed JSON failing validation
		httpmock.RegisterResponder("POST", testBaseURL+"/predict",
			httpmock.NewStringResponder(200, `{"risk_level": "EXTREME", "confidence": 0.5}`))

		client := newTestClient(2)
		_, err := client.Predict(context.Background(), "sensor-1", time.Now(), testFeatures())

		var unavailable *PredictionUnavailableError
		require.ErrorAs(t, err, &unavailable)
		var malformed *MalformedResponseError
		require.ErrorAs(t, unavailable.LastErr, &malformed)
		assert.Contains(t, malformed.Reason, "EXTREME")
	}

	httpmock.Reset()

	{
		// confidence outside [0,1]
		httpmock.RegisterResponder("POST", testBaseURL+"/predict",
			httpmock.NewStringResponder(200, `{"risk_level": "LOW", "confidence": 1.7}`))

		client := newTestClient(1)
		_, err := client.Predict(context.Background(), "sensor-1", time.Now(), testFeatures())

		var unavailable *PredictionUnavailableError
		require.ErrorAs(t, err, &unavailable)
	}
}

func TestPredict_BreakerOpens(t *testing.T) {
	common.SetTestLoggerNop()

	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testBaseURL+"/predict",
		httpmock.NewStringResponder(503, `{"error": "down"}`))

	client := newTestClient(1)

	// three consecutive failed calls trip the breaker
	for n := 0; n < 3; n++ {
		_, err := client.Predict(context.Background(), "sensor-1", time.Now(), testFeatures())
		require.Error(t, err)
	}
	assert.Equal(t, 3, httpmock.GetTotalCallCount())

	// the next call fails fast without touching the network
	_, err := client.Predict(context.Background(), "sensor-1", time.Now(), testFeatures())
	var unavailable *PredictionUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 0, unavailable.Attempts)
	assert.Equal(t, 3, httpmock.GetTotalCallCount())
}

func TestPredict_RejectionsDoNotTripBreaker(t *testing.T) {
	common.SetTestLoggerNop()

	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testBaseURL+"/predict",
		httpmock.NewStringResponder(400, `{"error": "bad request"}`))

	client := newTestClient(1)

	// 4xx means the service is healthy; the breaker must stay closed
	for n := 0; n < 5; n++ {
		_, err := client.Predict(context.Background(), "sensor-1", time.Now(), testFeatures())
		var rejected *RequestRejectedError
		require.ErrorAs(t, err, &rejected)
	}
	assert.Equal(t, 5, httpmock.GetTotalCallCount())
}

func TestPredictBatch(t *testing.T) {
	common.SetTestLoggerNop()

	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testBaseURL+"/predict/batch",
		httpmock.NewStringResponder(200, `{
			"results": [
				{"risk_level": "LOW", "confidence": 0.8, "model_version": "landslide-gb-v4"},
				{"error": "model exploded"},
				{"risk_level": "HIGH", "confidence": 0.75, "contributing_factors": ["Landslide"], "model_version": "landslide-gb-v4"}
			]
		}`))

	client := newTestClient(3)

	items := []BatchItem{
		{SensorID: "sensor-1", Timestamp: time.Now(), Features: testFeatures()},
		{SensorID: "sensor-1", Timestamp: time.Now(), Features: testFeatures()},
		{SensorID: "sensor-1", Timestamp: time.Now(), Features: testFeatures()},
	}

	classifications, err := client.PredictBatch(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, classifications, 3)

	assert.Equal(t, models.RiskLevelLow, classifications[0].RiskLevel)
	assert.Nil(t, classifications[1]) // failed item, caller decides the fallback
	assert.Equal(t, models.RiskLevelHigh, classifications[2].RiskLevel)
	assert.Equal(t, []string{"Landslide"}, classifications[2].Factors)
}

func TestPredictBatch_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	{
		// over the size limit: rejected before any network call
		client := NewClient(Options{BaseURL: testBaseURL, MaxBatchSize: 2})

		items := make([]BatchItem, 3)
		for i := range items {
			items[i] = BatchItem{SensorID: "sensor-1", Timestamp: time.Now(), Features: testFeatures()}
		}

		_, err := client.PredictBatch(context.Background(), items)
		var sizeErr *BatchSizeError
		require.ErrorAs(t, err, &sizeErr)
		assert.Equal(t, 3, sizeErr.Size)
		assert.Equal(t, 2, sizeErr.Max)
		assert.Equal(t, 0, httpmock.GetTotalCallCount())
	}

	{
		// result count mismatch is malformed and retried
		httpmock.RegisterResponder("POST", testBaseURL+"/predict/batch",
			httpmock.NewStringResponder(200, `{"results": [{"risk_level": "LOW", "confidence": 0.8}]}`))

		client := newTestClient(2)
		items := []BatchItem{
			{SensorID: "sensor-1", Timestamp: time.Now(), Features: testFeatures()},
			{SensorID: "sensor-1", Timestamp: time.Now(), Features: testFeatures()},
		}

		_, err := client.PredictBatch(context.Background(), items)
		var unavailable *PredictionUnavailableError
		require.ErrorAs(t, err, &unavailable)
		var malformed *MalformedResponseError
		require.ErrorAs(t, unavailable.LastErr, &malformed)
	}
}
