package models

import "time"

type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

type AlertPriority string

const (
	AlertPriorityLow      AlertPriority = "LOW"
	AlertPriorityMedium   AlertPriority = "MEDIUM"
	AlertPriorityHigh     AlertPriority = "HIGH"
	AlertPriorityCritical AlertPriority = "CRITICAL"
)

// NextPriority raises a priority one step, capped at CRITICAL.
func NextPriority(p AlertPriority) AlertPriority {
	switch p {
	case AlertPriorityLow:
		return AlertPriorityMedium
	case AlertPriorityMedium:
		return AlertPriorityHigh
	default:
		return AlertPriorityCritical
	}
}

type AlertStatus string

const (
	AlertStatusActive        AlertStatus = "ACTIVE"
	AlertStatusAcknowledged  AlertStatus = "ACKNOWLEDGED"
	AlertStatusResolved      AlertStatus = "RESOLVED"
	AlertStatusFalsePositive AlertStatus = "FALSE_POSITIVE"
)

type SensorStatus string

const (
	SensorStatusActive      SensorStatus = "ACTIVE"
	SensorStatusInactive    SensorStatus = "INACTIVE"
	SensorStatusMaintenance SensorStatus = "MAINTENANCE"
	SensorStatusError       SensorStatus = "ERROR"
)

// Features is one normalized sensor feature vector.
type Features struct {
	RainfallMm         float64 `json:"rainfall_mm"`
	SlopeAngle         float64 `json:"slope_angle"`
	SoilSaturation     float64 `json:"soil_saturation"`
	VegetationCover    float64 `json:"vegetation_cover"`
	EarthquakeActivity float64 `json:"earthquake_activity"`
	ProximityToWater   float64 `json:"proximity_to_water"`
	Landslide          float64 `json:"landslide"`
	SoilTypeGravel     bool    `json:"soil_type_gravel"`
	SoilTypeSand       bool    `json:"soil_type_sand"`
	SoilTypeSilt       bool    `json:"soil_type_silt"`
}

type Sensor struct {
	SensorID  string `gorm:"primaryKey"`
	Name      string
	Latitude  float64
	Longitude float64
	Zone      string
	Status    SensorStatus `gorm:"type:varchar(20);check:status IN ('ACTIVE','INACTIVE','MAINTENANCE','ERROR')"`

	// Per-factor alert thresholds, used to annotate trigger factors.
	SlopeAngleThreshold     float64
	RainfallThreshold       float64
	EarthquakeThreshold     float64
	SaturationThreshold     float64
	VegetationMinThreshold  float64
	WaterProximityThreshold float64
	LandslideThreshold      float64

	Readings []Reading `gorm:"foreignKey:SensorID;references:SensorID"`
	Alerts   []Alert   `gorm:"foreignKey:SensorID;references:SensorID"`
}

// Reading is immutable once stored. The classification columns are filled in
// exactly once at ingest time.
type Reading struct {
	ID        uint   `gorm:"primaryKey"`
	SensorID  string `gorm:"index"`
	Timestamp time.Time
	Features  `gorm:"embedded"`

	RiskLevel    RiskLevel `gorm:"type:varchar(10)"`
	Confidence   float64
	Factors      string // contributing factor names, comma joined, table order
	ModelVersion string
	ProcessingMs int64
}

type Alert struct {
	AlertID   string `gorm:"primaryKey"`
	SensorID  string `gorm:"index"`
	ReadingID uint

	RiskLevel  RiskLevel `gorm:"type:varchar(10)"`
	Confidence float64
	Priority   AlertPriority `gorm:"type:varchar(10)"`
	Status     AlertStatus   `gorm:"type:varchar(20);check:status IN ('ACTIVE','ACKNOWLEDGED','RESOLVED','FALSE_POSITIVE')"`

	EscalationLevel int
	EscalatedTo     string
	// Version is bumped on every status/escalation transition so that
	// concurrent writers cannot clobber each other.
	Version int

	TriggeredAt     time.Time
	AcknowledgedAt  *time.Time
	AcknowledgedBy  string
	ResolvedAt      *time.Time
	ResolvedBy      string
	LastEscalatedAt *time.Time

	AffectedRadiusM float64
	Zone            string

	Actions        []AlertAction   `gorm:"foreignKey:AlertID;references:AlertID"`
	TriggerFactors []TriggerFactor `gorm:"foreignKey:AlertID;references:AlertID"`
}

type AlertAction struct {
	ID        uint   `gorm:"primaryKey"`
	AlertID   string `gorm:"index"`
	Action    string
	Actor     string
	Notes     string
	Timestamp time.Time
}

type TriggerFactor struct {
	ID            uint   `gorm:"primaryKey"`
	AlertID       string `gorm:"index"`
	Name          string
	ObservedValue float64
	Threshold     float64
	Severity      string
}
