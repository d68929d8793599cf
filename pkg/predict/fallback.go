package predict

import (
	"context"
	"time"

	"minesafe.xyz/mine-monitor-service/pkg/common"
	"minesafe.xyz/mine-monitor-service/pkg/models"
)

// FallbackModelVersion tags classifications produced by the local rule table
// so downstream consumers can tell them apart from genuine remote predictions.
const FallbackModelVersion = "rule-fallback-v1"

const (
	FactorSlopeAngle         = "Slope_Angle"
	FactorRainfallMm         = "Rainfall_mm"
	FactorEarthquakeActivity = "Earthquake_Activity"
	FactorSoilSaturation     = "Soil_Saturation"
	FactorVegetationCover    = "Vegetation_Cover"
	FactorProximityToWater   = "Proximity_to_Water"
	FactorLandslide          = "Landslide"
	FactorSoilTypeSand       = "Soil_Type_Sand"
	FactorSoilTypeSilt       = "Soil_Type_Silt"
)

type scoreRule struct {
	factor string
	points int
	hit    func(f *models.Features) bool
}

// Rule order is significant: the factor list of a classification follows it.
var scoreRules = []scoreRule{
	{FactorSlopeAngle, 30, func(f *models.Features) bool { return f.SlopeAngle > 50 }},
	{FactorRainfallMm, 25, func(f *models.Features) bool { return f.RainfallMm > 50 }},
	{FactorEarthquakeActivity, 20, func(f *models.Features) bool { return f.EarthquakeActivity > 2.0 }},
	{FactorSoilSaturation, 15, func(f *models.Features) bool { return f.SoilSaturation > 0.7 }},
	{FactorVegetationCover, 10, func(f *models.Features) bool { return f.VegetationCover < 0.3 }},
	{FactorProximityToWater, 10, func(f *models.Features) bool { return f.ProximityToWater < 50 }},
	{FactorLandslide, 25, func(f *models.Features) bool { return f.Landslide > 0.5 }},
	{FactorSoilTypeSand, 5, func(f *models.Features) bool { return f.SoilTypeSand && f.SoilSaturation > 0.5 }},
	{FactorSoilTypeSilt, 8, func(f *models.Features) bool { return f.SoilTypeSilt && f.RainfallMm > 30 }},
}

// FallbackClassifier is the deterministic rule-based strategy used when the
// remote predictor is unreachable. It is a pure function of the features and
// never fails on validated input.
type FallbackClassifier struct{}

func (FallbackClassifier) Classify(_ context.Context, _ string, _ time.Time, features *models.Features) (*Classification, error) {
	start := time.Now()

	var hits []scoreRule
	for _, r := range scoreRules {
		if r.hit(features) {
			hits = append(hits, r)
		}
	}

	score := common.Reducer(hits, func(acc int, r scoreRule) int { return acc + r.points }, 0)
	factors := common.Mapper(hits, func(r scoreRule) string { return r.factor })

	level := models.RiskLevelLow
	confidence := 0.8
	switch {
	case score >= 60:
		level = models.RiskLevelHigh
		confidence = 0.7
	case score >= 30:
		level = models.RiskLevelMedium
		confidence = 0.6
	}

	return &Classification{
		RiskLevel:    level,
		Confidence:   confidence,
		Factors:      factors,
		ModelVersion: FallbackModelVersion,
		Elapsed:      time.Since(start),
	}, nil
}
