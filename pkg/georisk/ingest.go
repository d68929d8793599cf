package georisk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"minesafe.xyz/mine-monitor-service/pkg/broadcast"
	"minesafe.xyz/mine-monitor-service/pkg/common"
	"minesafe.xyz/mine-monitor-service/pkg/models"
	"minesafe.xyz/mine-monitor-service/pkg/predict"
)

func (g *GeoRisk) ingestReading(ctx context.Context, sensorID string, input *models.Reading) (*models.Reading, *models.Alert, error) {
	if err := ValidateFeatures(&input.Features); err != nil {
		return nil, nil, err
	}

	sensor, err := g.lookupSensor(sensorID)
	if err != nil {
		return nil, nil, err
	}

	classification := g.classifyReading(ctx, sensorID, input)
	return g.storeClassified(sensorID, sensor, input, classification)
}

// storeClassified persists a classified reading, creates an alert when the
// classification is HIGH, and emits the broadcast notifications. Broadcast
// failures never roll anything back; Publish is fire and forget.
func (g *GeoRisk) storeClassified(sensorID string, sensor *models.Sensor, input *models.Reading, classification *predict.Classification) (*models.Reading, *models.Alert, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameGeoRiskCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryIngest),
	)

	reading := models.Reading{
		SensorID:     sensorID,
		Timestamp:    input.Timestamp,
		Features:     input.Features,
		RiskLevel:    classification.RiskLevel,
		Confidence:   classification.Confidence,
		Factors:      strings.Join(classification.Factors, ","),
		ModelVersion: classification.ModelVersion,
		ProcessingMs: classification.Elapsed.Milliseconds(),
	}

	logger.Info("Received reading for sensor", zap.Reflect("reading", reading))

	if err := g.Db.Conn.Create(&reading).Error; err != nil {
		return nil, nil, err
	}

	logger.Info("Stored reading for sensor",
		zap.String("sensor_id", sensorID),
		zap.String("risk_level", string(reading.RiskLevel)),
		zap.String("model_version", reading.ModelVersion))

	g.publish(broadcast.TopicReadingIngested, sensorID, reading)
	g.publish(broadcast.TopicRiskClassified, sensorID, map[string]any{
		"reading_id":    reading.ID,
		"risk_level":    classification.RiskLevel,
		"confidence":    classification.Confidence,
		"factors":       classification.Factors,
		"model_version": classification.ModelVersion,
	})

	var alert *models.Alert
	if classification.RiskLevel == models.RiskLevelHigh {
		if g.Alert == nil {
			return nil, nil, fmt.Errorf("alert service not available")
		}
		created, err := g.Alert.CreateAlert(&reading, classification, sensor)
		if err != nil {
			return nil, nil, err
		}
		alert = created
	}

	return &reading, alert, nil
}

// classifyReading tries the remote strategy first and substitutes the rule
// fallback on any failure. It never fails itself: the fallback is total over
// validated input. The substitution is transparent to the caller apart from
// the classification's model version tag.
func (g *GeoRisk) classifyReading(ctx context.Context, sensorID string, input *models.Reading) *predict.Classification {
	logger := common.GetLoggerWith(
		common.LoggerNameGeoRiskCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryClassify),
	)

	if g.Remote != nil {
		classification, err := g.Remote.Classify(ctx, sensorID, input.Timestamp, &input.Features)
		if err == nil {
			return classification
		}

		var unavailable *predict.PredictionUnavailableError
		if errors.As(err, &unavailable) {
			logger.Warn("Remote prediction unavailable, using rule fallback",
				zap.String("sensor_id", sensorID),
				zap.Int("attempts", unavailable.Attempts),
				zap.Duration("elapsed", unavailable.Elapsed))
		} else {
			logger.Warn("Remote prediction failed, using rule fallback",
				zap.String("sensor_id", sensorID), zap.Error(err))
		}
	}

	classification, _ := g.Fallback.Classify(ctx, sensorID, input.Timestamp, &input.Features)
	return classification
}

// ingestBatch classifies a batch of readings in one remote call and ingests
// each with its classification. Per-item remote failures fall back locally;
// a batch over the size limit fails whole before any network call.
func (g *GeoRisk) ingestBatch(ctx context.Context, sensorID string, inputs []*models.Reading) ([]*models.Reading, []*models.Alert, error) {
	var fields []string
	for i, input := range inputs {
		var verr *ValidationError
		if err := ValidateFeatures(&input.Features); errors.As(err, &verr) {
			for _, field := range verr.Fields {
				fields = append(fields, fmt.Sprintf("readings[%d].%s", i, field))
			}
		}
	}
	if len(fields) > 0 {
		return nil, nil, &ValidationError{Fields: fields}
	}

	sensor, err := g.lookupSensor(sensorID)
	if err != nil {
		return nil, nil, err
	}

	classifications, err := g.classifyBatch(ctx, sensorID, inputs)
	if err != nil {
		return nil, nil, err
	}

	readings := make([]*models.Reading, 0, len(inputs))
	var alerts []*models.Alert
	for i, input := range inputs {
		reading, alert, err := g.storeClassified(sensorID, sensor, input, classifications[i])
		if err != nil {
			return nil, nil, err
		}
		readings = append(readings, reading)
		if alert != nil {
			alerts = append(alerts, alert)
		}
	}
	return readings, alerts, nil
}

func (g *GeoRisk) classifyBatch(ctx context.Context, sensorID string, inputs []*models.Reading) ([]*predict.Classification, error) {
	var results []*predict.Classification

	if g.PredictClient != nil {
		items := common.Mapper(inputs, func(r *models.Reading) predict.BatchItem {
			return predict.BatchItem{SensorID: sensorID, Timestamp: r.Timestamp, Features: &r.Features}
		})

		batch, err := g.PredictClient.PredictBatch(ctx, items)
		switch {
		case err == nil:
			results = batch
		default:
			var sizeErr *predict.BatchSizeError
			if errors.As(err, &sizeErr) {
				return nil, err
			}
			common.GetLoggerWith(
				common.LoggerNameGeoRiskCore,
				zap.String(common.LoggerFieldCategory, common.LoggerCategoryClassify),
			).Warn("Batch prediction failed, using rule fallback for all items",
				zap.String("sensor_id", sensorID), zap.Error(err))
		}
	}

	if results == nil {
		results = make([]*predict.Classification, len(inputs))
	}
	for i := range results {
		if results[i] == nil {
			results[i], _ = g.Fallback.Classify(ctx, sensorID, inputs[i].Timestamp, &inputs[i].Features)
		}
	}
	return results, nil
}

type IIngestImpl struct {
	georisk *GeoRisk
}

func (ii *IIngestImpl) IngestReading(ctx context.Context, sensorID string, input *models.Reading) (*models.Reading, *models.Alert, error) {
	return ii.georisk.ingestReading(ctx, sensorID, input)
}

func (ii *IIngestImpl) IngestBatch(ctx context.Context, sensorID string, inputs []*models.Reading) ([]*models.Reading, []*models.Alert, error) {
	return ii.georisk.ingestBatch(ctx, sensorID, inputs)
}

func (g *GeoRisk) GetIIngest() IIngest {
	return &IIngestImpl{georisk: g}
}
