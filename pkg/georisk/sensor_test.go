package georisk

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"minesafe.xyz/mine-monitor-service/pkg/common"
	"minesafe.xyz/mine-monitor-service/pkg/models"
	_ "minesafe.xyz/mine-monitor-service/pkg/testing"
)

func TestUpsertSensor(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, geoObj, _, _, _ := GetMockGeoRiskWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	sensorID := uuid.NewString()

	input := &models.Sensor{
		Name:                "pit-wall-east",
		Latitude:            -22.41,
		Longitude:           -43.12,
		Zone:                "east-pit",
		SlopeAngleThreshold: 45.0,
	}

	err := geoObj.Sensor.UpsertSensor(sensorID, input)
	assert.NoError(t, err)

	saved, err := geoObj.Sensor.GetSensor(sensorID)
	require.NoError(t, err)
	assert.Equal(t, "pit-wall-east", saved.Name)
	assert.Equal(t, models.SensorStatusActive, saved.Status) // defaulted
	assert.Equal(t, 45.0, saved.SlopeAngleThreshold)

	// update in place
	input.Name = "pit-wall-east-2"
	input.Status = models.SensorStatusMaintenance
	err = geoObj.Sensor.UpsertSensor(sensorID, input)
	assert.NoError(t, err)

	updated, err := geoObj.Sensor.GetSensor(sensorID)
	require.NoError(t, err)
	assert.Equal(t, "pit-wall-east-2", updated.Name)
	assert.Equal(t, models.SensorStatusMaintenance, updated.Status)
}

func TestUpsertSensor_WithLog(t *testing.T) {
	var buf = &bytes.Buffer{}
	common.SetTestCaptureLogger(buf, zapcore.InfoLevel)

	ctrl, geoObj, _, _, _ := GetMockGeoRiskWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	sensorID := uuid.NewString()

	{
		err := geoObj.Sensor.UpsertSensor(sensorID, &models.Sensor{
			Name: "pit-wall-north",
			Zone: "north-pit",
		})
		assert.NoError(t, err)
	}

	logs := ParseLogs(buf)

	{
		found := false
		for _, log := range logs {
			lobj := log.(map[string]any)
			if lobj["category"] == "sensor" &&
				lobj["logger"] == "georisk_core" &&
				lobj["msg"] == "Received sensor registration" &&
				lobj["sensor"].(map[string]any)["SensorID"] == sensorID &&
				lobj["sensor"].(map[string]any)["Name"] == "pit-wall-north" {
				found = true
			}
		}
		assert.True(t, found, "log not found")
	}

	{
		found := false
		for _, log := range logs {
			lobj := log.(map[string]any)
			if lobj["category"] == "sensor" &&
				lobj["logger"] == "georisk_core" &&
				lobj["msg"] == "Upserted sensor" &&
				lobj["sensor"].(map[string]any)["SensorID"] == sensorID &&
				lobj["sensor"].(map[string]any)["Zone"] == "north-pit" {
				found = true
			}
		}
		assert.True(t, found, "log not found")
	}
}

func TestUpsertSensor_CacheInvalidation(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, geoObj, _, _, _ := GetMockGeoRiskWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	sensorID := uuid.NewString()

	err := geoObj.Sensor.UpsertSensor(sensorID, &models.Sensor{Name: "before"})
	require.NoError(t, err)

	// warm the cache through the ingest lookup path
	cached, err := geoObj.lookupSensor(sensorID)
	require.NoError(t, err)
	assert.Equal(t, "before", cached.Name)

	// re-registering must not serve the stale entry
	err = geoObj.Sensor.UpsertSensor(sensorID, &models.Sensor{Name: "after"})
	require.NoError(t, err)

	fresh, err := geoObj.lookupSensor(sensorID)
	require.NoError(t, err)
	assert.Equal(t, "after", fresh.Name)
}

func TestGetLatestReading(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, geoObj, _, _, _ := GetMockGeoRiskWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	sensorID := uuid.NewString()
	seedSensor(t, geoObj, sensorID)

	now := time.Now().Truncate(time.Second)
	for i, offset := range []time.Duration{-2 * time.Hour, -time.Hour, 0} {
		reading := models.Reading{
			SensorID:  sensorID,
			Timestamp: now.Add(offset),
			Features:  models.Features{RainfallMm: float64(i)},
		}
		err := geoObj.Db.Conn.Create(&reading).Error
		require.NoError(t, err)
	}

	latest, err := geoObj.Sensor.GetLatestReading(sensorID)
	require.NoError(t, err)
	assert.Equal(t, now.Unix(), latest.Timestamp.Unix())
	assert.Equal(t, 2.0, latest.RainfallMm)
}

func TestGetLatestReading_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, geoObj, _, _, _ := GetMockGeoRiskWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	{
		// sensor with no readings yet
		sensorID := uuid.NewString()
		seedSensor(t, geoObj, sensorID)

		_, err := geoObj.Sensor.GetLatestReading(sensorID)
		var nferr *NotFoundError
		require.ErrorAs(t, err, &nferr)
		assert.Equal(t, "reading", nferr.Kind)
	}

	{
		// unknown sensor
		_, err := geoObj.Sensor.GetSensor(uuid.NewString())
		var nferr *NotFoundError
		require.ErrorAs(t, err, &nferr)
		assert.Equal(t, "sensor", nferr.Kind)
	}
}
