package georisk

import (
	"minesafe.xyz/mine-monitor-service/pkg/models"
	"minesafe.xyz/mine-monitor-service/pkg/predict"
)

// factorObservation joins a contributing factor name against the reading's
// raw value and the sensor's configured threshold. Sensors registered without
// a threshold fall back to the rule-table constants.
func factorObservation(name string, f *models.Features, sensor *models.Sensor) (observed, threshold float64) {
	pick := func(configured, fallback float64) float64 {
		if configured != 0 {
			return configured
		}
		return fallback
	}

	switch name {
	case predict.FactorSlopeAngle:
		return f.SlopeAngle, pick(sensor.SlopeAngleThreshold, 50)
	case predict.FactorRainfallMm:
		return f.RainfallMm, pick(sensor.RainfallThreshold, 50)
	case predict.FactorEarthquakeActivity:
		return f.EarthquakeActivity, pick(sensor.EarthquakeThreshold, 2.0)
	case predict.FactorSoilSaturation:
		return f.SoilSaturation, pick(sensor.SaturationThreshold, 0.7)
	case predict.FactorVegetationCover:
		return f.VegetationCover, pick(sensor.VegetationMinThreshold, 0.3)
	case predict.FactorProximityToWater:
		return f.ProximityToWater, pick(sensor.WaterProximityThreshold, 50)
	case predict.FactorLandslide:
		return f.Landslide, pick(sensor.LandslideThreshold, 0.5)
	case predict.FactorSoilTypeSand:
		return f.SoilSaturation, 0.5
	case predict.FactorSoilTypeSilt:
		return f.RainfallMm, 30
	default:
		return 0, 0
	}
}

// factorSeverity grades how far past its threshold a factor is. Vegetation
// cover and water proximity trigger below their threshold, everything else
// above.
func factorSeverity(name string, observed, threshold float64) string {
	if threshold == 0 {
		return "MODERATE"
	}

	var ratio float64
	switch name {
	case predict.FactorVegetationCover, predict.FactorProximityToWater:
		ratio = (threshold - observed) / threshold
	default:
		ratio = (observed - threshold) / threshold
	}

	if ratio >= 0.5 {
		return "SEVERE"
	}
	return "MODERATE"
}
