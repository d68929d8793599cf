package georisk

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"minesafe.xyz/mine-monitor-service/pkg/broadcast"
	"minesafe.xyz/mine-monitor-service/pkg/common"
	"minesafe.xyz/mine-monitor-service/pkg/models"
	"minesafe.xyz/mine-monitor-service/pkg/predict"
)

const (
	// MaxEscalationLevel caps how often an alert can be escalated.
	MaxEscalationLevel = 3

	// AutoEscalationActor marks escalations applied by the periodic sweep.
	AutoEscalationActor = "SYSTEM_AUTO_ESCALATION"

	// criticalConfidence is the bar above which a system-generated alert
	// starts at CRITICAL priority instead of HIGH.
	criticalConfidence = 0.9
)

func (g *GeoRisk) alertLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameGeoRiskCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryAlert),
	)
}

func (g *GeoRisk) createAlert(reading *models.Reading, classification *predict.Classification, sensor *models.Sensor) (*models.Alert, error) {
	if classification.RiskLevel != models.RiskLevelHigh {
		return nil, fmt.Errorf("alert requires HIGH risk classification, got %s", classification.RiskLevel)
	}

	logger := g.alertLogger()
	now := time.Now()

	priority := models.AlertPriorityHigh
	if classification.Confidence >= criticalConfidence {
		priority = models.AlertPriorityCritical
	}

	alert := models.Alert{
		AlertID:         fmt.Sprintf("AL-%d-%s", now.UnixNano(), sensor.SensorID),
		SensorID:        sensor.SensorID,
		ReadingID:       reading.ID,
		RiskLevel:       classification.RiskLevel,
		Confidence:      classification.Confidence,
		Priority:        priority,
		Status:          models.AlertStatusActive,
		EscalationLevel: 0,
		Version:         1,
		TriggeredAt:     now,
		AffectedRadiusM: 100 + 400*classification.Confidence,
		Zone:            sensor.Zone,
		TriggerFactors: common.Mapper(classification.Factors, func(name string) models.TriggerFactor {
			observed, threshold := factorObservation(name, &reading.Features, sensor)
			return models.TriggerFactor{
				Name:          name,
				ObservedValue: observed,
				Threshold:     threshold,
				Severity:      factorSeverity(name, observed, threshold),
			}
		}),
		Actions: []models.AlertAction{{
			Action:    "CREATED",
			Actor:     "SYSTEM",
			Notes:     fmt.Sprintf("triggered by %s classification (model %s)", classification.RiskLevel, classification.ModelVersion),
			Timestamp: now,
		}},
	}

	logger.Info("Alert found", zap.Reflect("alert", alert))

	if err := g.Db.Conn.Create(&alert).Error; err != nil {
		return nil, err
	}

	logger.Info("Alert saved", zap.String("alert_id", alert.AlertID), zap.String("priority", string(alert.Priority)))

	g.publish(broadcast.TopicAlertCreated, alert.SensorID, alert)
	return &alert, nil
}

func (g *GeoRisk) getAlert(alertID string) (*models.Alert, error) {
	var alert models.Alert
	err := g.Db.Conn.
		Preload("Actions").
		Preload("TriggerFactors").
		First(&alert, "alert_id = ?", alertID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "alert", ID: alertID}
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

// transitionAlert applies updates guarded by the alert's version so that two
// concurrent writers (operator vs sweep) cannot both win. Zero rows affected
// means the alert moved underneath us.
func (g *GeoRisk) transitionAlert(alert *models.Alert, op string, updates map[string]any) error {
	updates["version"] = alert.Version + 1

	res := g.Db.Conn.Model(&models.Alert{}).
		Where("alert_id = ? AND version = ?", alert.AlertID, alert.Version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &InvalidTransitionError{
			AlertID: alert.AlertID,
			From:    alert.Status,
			Op:      op,
			Reason:  "alert was modified concurrently",
		}
	}
	return nil
}

func (g *GeoRisk) appendAction(alertID, action, actor, notes string, at time.Time) error {
	return g.Db.Conn.Create(&models.AlertAction{
		AlertID:   alertID,
		Action:    action,
		Actor:     actor,
		Notes:     notes,
		Timestamp: at,
	}).Error
}

func (g *GeoRisk) acknowledgeAlert(alertID, actor string) (*models.Alert, error) {
	alert, err := g.getAlert(alertID)
	if err != nil {
		return nil, err
	}

	if alert.Status != models.AlertStatusActive {
		return nil, &InvalidTransitionError{AlertID: alertID, From: alert.Status, Op: "acknowledge"}
	}

	now := time.Now()
	if err := g.transitionAlert(alert, "acknowledge", map[string]any{
		"status":          models.AlertStatusAcknowledged,
		"acknowledged_at": now,
		"acknowledged_by": actor,
	}); err != nil {
		return nil, err
	}

	if err := g.appendAction(alertID, "ACKNOWLEDGED", actor, "", now); err != nil {
		return nil, err
	}

	g.alertLogger().Info("Alert acknowledged", zap.String("alert_id", alertID), zap.String("actor", actor))

	updated, err := g.getAlert(alertID)
	if err != nil {
		return nil, err
	}
	g.publish(broadcast.TopicAlertAcknowledged, updated.SensorID, updated)
	return updated, nil
}

func (g *GeoRisk) resolveAlert(alertID, actor string, resolution models.AlertStatus) (*models.Alert, error) {
	if resolution != models.AlertStatusResolved && resolution != models.AlertStatusFalsePositive {
		return nil, &InvalidTransitionError{
			AlertID: alertID,
			Op:      "resolve",
			Reason:  fmt.Sprintf("resolution must be %s or %s, got %s", models.AlertStatusResolved, models.AlertStatusFalsePositive, resolution),
		}
	}

	alert, err := g.getAlert(alertID)
	if err != nil {
		return nil, err
	}

	if alert.Status == models.AlertStatusResolved || alert.Status == models.AlertStatusFalsePositive {
		return nil, &InvalidTransitionError{AlertID: alertID, From: alert.Status, Op: "resolve"}
	}

	now := time.Now()
	if err := g.transitionAlert(alert, "resolve", map[string]any{
		"status":      resolution,
		"resolved_at": now,
		"resolved_by": actor,
	}); err != nil {
		return nil, err
	}

	if err := g.appendAction(alertID, string(resolution), actor, "", now); err != nil {
		return nil, err
	}

	g.alertLogger().Info("Alert resolved",
		zap.String("alert_id", alertID), zap.String("actor", actor), zap.String("resolution", string(resolution)))

	updated, err := g.getAlert(alertID)
	if err != nil {
		return nil, err
	}
	g.publish(broadcast.TopicAlertResolved, updated.SensorID, updated)
	return updated, nil
}

func (g *GeoRisk) escalateAlert(alertID, escalatedTo string) (*models.Alert, error) {
	alert, err := g.getAlert(alertID)
	if err != nil {
		return nil, err
	}

	if alert.Status != models.AlertStatusActive {
		return nil, &InvalidTransitionError{AlertID: alertID, From: alert.Status, Op: "escalate"}
	}
	if alert.EscalationLevel >= MaxEscalationLevel {
		return nil, &InvalidTransitionError{
			AlertID: alertID,
			From:    alert.Status,
			Op:      "escalate",
			Reason:  fmt.Sprintf("escalation level already at maximum %d", MaxEscalationLevel),
		}
	}

	newLevel := alert.EscalationLevel + 1
	newPriority := models.NextPriority(alert.Priority)
	if newLevel == MaxEscalationLevel {
		newPriority = models.AlertPriorityCritical
	}

	now := time.Now()
	if err := g.transitionAlert(alert, "escalate", map[string]any{
		"escalation_level":  newLevel,
		"priority":          newPriority,
		"escalated_to":      escalatedTo,
		"last_escalated_at": now,
	}); err != nil {
		return nil, err
	}

	notes := fmt.Sprintf("escalated to level %d, priority %s", newLevel, newPriority)
	if err := g.appendAction(alertID, "ESCALATED", escalatedTo, notes, now); err != nil {
		return nil, err
	}

	g.alertLogger().Info("Alert escalated",
		zap.String("alert_id", alertID),
		zap.Int("level", newLevel),
		zap.String("priority", string(newPriority)),
		zap.String("escalated_to", escalatedTo))

	updated, err := g.getAlert(alertID)
	if err != nil {
		return nil, err
	}
	g.publish(broadcast.TopicAlertEscalated, updated.SensorID, updated)
	return updated, nil
}

// recordAction appends to the action log without touching alert status; legal
// in every state.
func (g *GeoRisk) recordAlertAction(alertID, action, actor, notes string) (*models.Alert, error) {
	if _, err := g.getAlert(alertID); err != nil {
		return nil, err
	}

	if err := g.appendAction(alertID, action, actor, notes, time.Now()); err != nil {
		return nil, err
	}

	return g.getAlert(alertID)
}

func (g *GeoRisk) getSensorAlerts(sensorID string) ([]models.Alert, error) {
	var alerts []models.Alert
	err := g.Db.Conn.
		Preload("Actions").
		Preload("TriggerFactors").
		Where("sensor_id = ?", sensorID).
		Order("triggered_at desc").
		Find(&alerts).Error
	return alerts, err
}

type IAlertImpl struct {
	georisk *GeoRisk
}

func (ia *IAlertImpl) CreateAlert(reading *models.Reading, classification *predict.Classification, sensor *models.Sensor) (*models.Alert, error) {
	return ia.georisk.createAlert(reading, classification, sensor)
}

func (ia *IAlertImpl) Acknowledge(alertID, actor string) (*models.Alert, error) {
	return ia.georisk.acknowledgeAlert(alertID, actor)
}

func (ia *IAlertImpl) Resolve(alertID, actor string, resolution models.AlertStatus) (*models.Alert, error) {
	return ia.georisk.resolveAlert(alertID, actor, resolution)
}

func (ia *IAlertImpl) Escalate(alertID, escalatedTo string) (*models.Alert, error) {
	return ia.georisk.escalateAlert(alertID, escalatedTo)
}

func (ia *IAlertImpl) RecordAction(alertID, action, actor, notes string) (*models.Alert, error) {
	return ia.georisk.recordAlertAction(alertID, action, actor, notes)
}

func (ia *IAlertImpl) GetSensorAlerts(sensorID string) ([]models.Alert, error) {
	return ia.georisk.getSensorAlerts(sensorID)
}

func (ia *IAlertImpl) SweepOverdueAlerts(now time.Time) (int, error) {
	return ia.georisk.sweepOverdueAlerts(now)
}

func (g *GeoRisk) GetIAlert() IAlert {
	return &IAlertImpl{georisk: g}
}
