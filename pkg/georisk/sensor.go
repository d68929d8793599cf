package georisk

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"minesafe.xyz/mine-monitor-service/pkg/common"
	"minesafe.xyz/mine-monitor-service/pkg/models"
)

func (g *GeoRisk) upsertSensor(sensorID string, input *models.Sensor) error {
	logger := common.GetLoggerWith(
		common.LoggerNameGeoRiskCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategorySensor),
	)

	sensor := models.Sensor{
		SensorID:                sensorID,
		Name:                    input.Name,
		Latitude:                input.Latitude,
		Longitude:               input.Longitude,
		Zone:                    input.Zone,
		Status:                  input.Status,
		SlopeAngleThreshold:     input.SlopeAngleThreshold,
		RainfallThreshold:       input.RainfallThreshold,
		EarthquakeThreshold:     input.EarthquakeThreshold,
		SaturationThreshold:     input.SaturationThreshold,
		VegetationMinThreshold:  input.VegetationMinThreshold,
		WaterProximityThreshold: input.WaterProximityThreshold,
		LandslideThreshold:      input.LandslideThreshold,
	}
	if sensor.Status == "" {
		sensor.Status = models.SensorStatusActive
	}

	logger.Info("Received sensor registration", zap.Reflect("sensor", sensor))

	err := g.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sensor_id"}},
		UpdateAll: true,
	}).Create(&sensor).Error

	if err == nil {
		g.getSensorCache().Delete(sensorID)
		logger.Info("Upserted sensor", zap.Reflect("sensor", sensor))
	}

	return err
}

func (g *GeoRisk) getSensor(sensorID string) (*models.Sensor, error) {
	var sensor models.Sensor
	err := g.Db.Conn.First(&sensor, "sensor_id = ?", sensorID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "sensor", ID: sensorID}
	}
	if err != nil {
		return nil, err
	}
	return &sensor, nil
}

// lookupSensor serves ingest's hot path from a short-lived cache; sensor
// registrations change rarely compared with reading arrival rate.
func (g *GeoRisk) lookupSensor(sensorID string) (*models.Sensor, error) {
	if cached, found := g.getSensorCache().Get(sensorID); found {
		return cached.(*models.Sensor), nil
	}

	sensor, err := g.getSensor(sensorID)
	if err != nil {
		return nil, err
	}

	g.getSensorCache().SetDefault(sensorID, sensor)
	return sensor, nil
}

func (g *GeoRisk) getLatestReading(sensorID string) (*models.Reading, error) {
	var reading models.Reading
	err := g.Db.Conn.
		Where("sensor_id = ?", sensorID).
		Order("timestamp desc").
		First(&reading).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "reading", ID: sensorID}
	}
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

type ISensorImpl struct {
	georisk *GeoRisk
}

func (is *ISensorImpl) UpsertSensor(sensorID string, input *models.Sensor) error {
	return is.georisk.upsertSensor(sensorID, input)
}

func (is *ISensorImpl) GetSensor(sensorID string) (*models.Sensor, error) {
	return is.georisk.getSensor(sensorID)
}

func (is *ISensorImpl) GetLatestReading(sensorID string) (*models.Reading, error) {
	return is.georisk.getLatestReading(sensorID)
}

func (g *GeoRisk) GetISensor() ISensor {
	return &ISensorImpl{georisk: g}
}
