package georisk

import (
	"fmt"

	"minesafe.xyz/mine-monitor-service/pkg/models"
)

// ValidateFeatures checks every feature against its fixed range and returns a
// *ValidationError listing all offending fields, or nil.
func ValidateFeatures(f *models.Features) error {
	var fields []string

	inRange := func(name string, value, min, max float64) {
		if value < min || value > max {
			fields = append(fields, fmt.Sprintf("%s: must be within [%v, %v], got %v", name, min, max, value))
		}
	}
	nonNegative := func(name string, value float64) {
		if value < 0 {
			fields = append(fields, fmt.Sprintf("%s: must not be negative, got %v", name, value))
		}
	}

	nonNegative("rainfall_mm", f.RainfallMm)
	inRange("slope_angle", f.SlopeAngle, 0, 90)
	inRange("soil_saturation", f.SoilSaturation, 0, 1)
	inRange("vegetation_cover", f.VegetationCover, 0, 1)
	inRange("earthquake_activity", f.EarthquakeActivity, 0, 10)
	nonNegative("proximity_to_water", f.ProximityToWater)
	inRange("landslide", f.Landslide, 0, 1)

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
