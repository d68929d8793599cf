package georisk

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minesafe.xyz/mine-monitor-service/pkg/common"
	"minesafe.xyz/mine-monitor-service/pkg/models"
	_ "minesafe.xyz/mine-monitor-service/pkg/testing"
)

// resolveAllActiveAlerts quiesces alerts left behind by earlier tests; the
// shared in-memory database survives across tests and the sweep counts are
// exact.
func resolveAllActiveAlerts(t *testing.T, geoObj *GeoRisk) {
	err := geoObj.Db.Conn.Model(&models.Alert{}).
		Where("status = ?", models.AlertStatusActive).
		Update("status", models.AlertStatusResolved).Error
	require.NoError(t, err)
}

func TestSweepOverdueAlerts(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, geoObj, _, _, _ := GetMockGeoRiskWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	resolveAllActiveAlerts(t, geoObj)

	sensorID := uuid.NewString()
	seedSensor(t, geoObj, sensorID)

	now := time.Now()

	// HIGH has a 5 minute window; 6 minutes old is overdue
	overdue := seedActiveAlert(t, geoObj, sensorID, models.AlertPriorityHigh, now.Add(-6*time.Minute))
	// 4 minutes old is not
	fresh := seedActiveAlert(t, geoObj, sensorID, models.AlertPriorityHigh, now.Add(-4*time.Minute))
	// LOW has a 30 minute window
	lowFresh := seedActiveAlert(t, geoObj, sensorID, models.AlertPriorityLow, now.Add(-20*time.Minute))

	escalated, err := geoObj.Alert.SweepOverdueAlerts(now)
	require.NoError(t, err)
	assert.Equal(t, 1, escalated)

	var saved models.Alert
	err = geoObj.Db.Conn.First(&saved, "alert_id = ?", overdue.AlertID).Error
	require.NoError(t, err)
	assert.Equal(t, 1, saved.EscalationLevel)
	assert.Equal(t, models.AlertPriorityCritical, saved.Priority)
	assert.Equal(t, AutoEscalationActor, saved.EscalatedTo)

	err = geoObj.Db.Conn.First(&saved, "alert_id = ?", fresh.AlertID).Error
	require.NoError(t, err)
	assert.Equal(t, 0, saved.EscalationLevel)

	err = geoObj.Db.Conn.First(&saved, "alert_id = ?", lowFresh.AlertID).Error
	require.NoError(t, err)
	assert.Equal(t, 0, saved.EscalationLevel)
}

func TestSweepOverdueAlerts_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, geoObj, _, _, _ := GetMockGeoRiskWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	resolveAllActiveAlerts(t, geoObj)

	sensorID := uuid.NewString()
	seedSensor(t, geoObj, sensorID)

	now := time.Now()

	{
		// acknowledged alerts age without being escalated
		alert := seedActiveAlert(t, geoObj, sensorID, models.AlertPriorityCritical, now.Add(-time.Hour))
		_, err := geoObj.Alert.Acknowledge(alert.AlertID, "operator-1")
		require.NoError(t, err)

		escalated, err := geoObj.Alert.SweepOverdueAlerts(now)
		require.NoError(t, err)
		assert.Equal(t, 0, escalated)
	}

	{
		// alerts already at the cap stay put
		alert := seedActiveAlert(t, geoObj, sensorID, models.AlertPriorityCritical, now.Add(-time.Hour))
		err := geoObj.Db.Conn.Model(&models.Alert{}).
			Where("alert_id = ?", alert.AlertID).
			Update("escalation_level", MaxEscalationLevel).Error
		require.NoError(t, err)

		escalated, err := geoObj.Alert.SweepOverdueAlerts(now)
		require.NoError(t, err)
		assert.Equal(t, 0, escalated)
	}

	{
		// an overdue CRITICAL alert escalates once per sweep, not to the cap
		alert := seedActiveAlert(t, geoObj, sensorID, models.AlertPriorityCritical, now.Add(-10*time.Minute))

		escalated, err := geoObj.Alert.SweepOverdueAlerts(now)
		require.NoError(t, err)
		assert.Equal(t, 1, escalated)

		var saved models.Alert
		err = geoObj.Db.Conn.First(&saved, "alert_id = ?", alert.AlertID).Error
		require.NoError(t, err)
		assert.Equal(t, 1, saved.EscalationLevel)
	}
}

func TestSweeper(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, geoObj, _, _, _ := GetMockGeoRiskWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	resolveAllActiveAlerts(t, geoObj)

	sensorID := uuid.NewString()
	seedSensor(t, geoObj, sensorID)
	alert := seedActiveAlert(t, geoObj, sensorID, models.AlertPriorityHigh, time.Now().Add(-6*time.Minute))

	sweeper := geoObj.NewSweeper(20 * time.Millisecond)
	sweeper.Start()

	assert.Eventually(t, func() bool {
		var saved models.Alert
		if err := geoObj.Db.Conn.First(&saved, "alert_id = ?", alert.AlertID).Error; err != nil {
			return false
		}
		return saved.EscalationLevel >= 1
	}, 2*time.Second, 10*time.Millisecond)

	sweeper.Stop()
}
