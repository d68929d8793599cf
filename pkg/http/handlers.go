package http

import (
	"errors"
	"net/http"
	"time"

	"minesafe.xyz/mine-monitor-service/pkg/common"
	"minesafe.xyz/mine-monitor-service/pkg/georisk"
	"minesafe.xyz/mine-monitor-service/pkg/models"
	"minesafe.xyz/mine-monitor-service/pkg/predict"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

// writeDomainError maps the core's error taxonomy onto HTTP statuses.
func writeDomainError(c *gin.Context, err error) {
	var validation *georisk.ValidationError
	var notFound *georisk.NotFoundError
	var transition *georisk.InvalidTransitionError
	var batchSize *predict.BatchSizeError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error(), "fields": validation.Fields})
	case errors.As(err, &batchSize):
		c.JSON(http.StatusBadRequest, gin.H{"error": batchSize.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": transition.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

type ReadingRequest struct {
	Timestamp          time.Time `json:"timestamp"`
	RainfallMm         float64   `json:"rainfall_mm"`
	SlopeAngle         float64   `json:"slope_angle"`
	SoilSaturation     float64   `json:"soil_saturation"`
	VegetationCover    float64   `json:"vegetation_cover"`
	EarthquakeActivity float64   `json:"earthquake_activity"`
	ProximityToWater   float64   `json:"proximity_to_water"`
	Landslide          float64   `json:"landslide"`
	SoilTypeGravel     bool      `json:"soil_type_gravel"`
	SoilTypeSand       bool      `json:"soil_type_sand"`
	SoilTypeSilt       bool      `json:"soil_type_silt"`
}

var readingRequestSchema = z.Struct(z.Shape{
	"Timestamp":          z.Time().Required(),
	"RainfallMm":         z.Float64().Required(),
	"SlopeAngle":         z.Float64().Required(),
	"SoilSaturation":     z.Float64().Required(),
	"VegetationCover":    z.Float64().Required(),
	"EarthquakeActivity": z.Float64().Required(),
	"ProximityToWater":   z.Float64().Required(),
	"Landslide":          z.Float64().Required(),
	"SoilTypeGravel":     z.Bool(),
	"SoilTypeSand":       z.Bool(),
	"SoilTypeSilt":       z.Bool(),
})

func (req *ReadingRequest) toReading() *models.Reading {
	return &models.Reading{
		Timestamp: req.Timestamp,
		Features: models.Features{
			RainfallMm:         req.RainfallMm,
			SlopeAngle:         req.SlopeAngle,
			SoilSaturation:     req.SoilSaturation,
			VegetationCover:    req.VegetationCover,
			EarthquakeActivity: req.EarthquakeActivity,
			ProximityToWater:   req.ProximityToWater,
			Landslide:          req.Landslide,
			SoilTypeGravel:     req.SoilTypeGravel,
			SoilTypeSand:       req.SoilTypeSand,
			SoilTypeSilt:       req.SoilTypeSilt,
		},
	}
}

func (rs *RestfulServer) PostReading(c *gin.Context) {
	sensorID := c.Param("sensor_id")

	if !rs.CheckSensorLimiter(sensorID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req ReadingRequest
	if err := readingRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	reading, alert, err := rs.Geo.Ingest.IngestReading(c.Request.Context(), sensorID, req.toReading())
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reading": reading, "alert": alert})
}

type ReadingBatchRequest struct {
	Readings []ReadingRequest `json:"readings"`
}

func (rs *RestfulServer) PostReadingBatch(c *gin.Context) {
	sensorID := c.Param("sensor_id")

	if !rs.CheckSensorLimiter(sensorID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req ReadingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Readings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "readings must not be empty"})
		return
	}

	inputs := common.Mapper(req.Readings, func(r ReadingRequest) *models.Reading {
		return r.toReading()
	})

	readings, alerts, err := rs.Geo.Ingest.IngestBatch(c.Request.Context(), sensorID, inputs)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"readings": readings, "alerts": alerts})
}

type SensorRequest struct {
	Name                    string  `json:"name"`
	Latitude                float64 `json:"latitude"`
	Longitude               float64 `json:"longitude"`
	Zone                    string  `json:"zone"`
	Status                  string  `json:"status"`
	SlopeAngleThreshold     float64 `json:"slope_angle_threshold"`
	RainfallThreshold       float64 `json:"rainfall_threshold"`
	EarthquakeThreshold     float64 `json:"earthquake_threshold"`
	SaturationThreshold     float64 `json:"saturation_threshold"`
	VegetationMinThreshold  float64 `json:"vegetation_min_threshold"`
	WaterProximityThreshold float64 `json:"water_proximity_threshold"`
	LandslideThreshold      float64 `json:"landslide_threshold"`
}

var sensorRequestSchema = z.Struct(z.Shape{
	"Name":                    z.String().Min(1).Required(),
	"Latitude":                z.Float64(),
	"Longitude":               z.Float64(),
	"Zone":                    z.String(),
	"Status":                  z.String(),
	"SlopeAngleThreshold":     z.Float64(),
	"RainfallThreshold":       z.Float64(),
	"EarthquakeThreshold":     z.Float64(),
	"SaturationThreshold":     z.Float64(),
	"VegetationMinThreshold":  z.Float64(),
	"WaterProximityThreshold": z.Float64(),
	"LandslideThreshold":      z.Float64(),
})

func (rs *RestfulServer) UpsertSensor(c *gin.Context) {
	sensorID := c.Param("sensor_id")

	var req SensorRequest
	if err := sensorRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	sensor := models.Sensor{
		SensorID:                sensorID,
		Name:                    req.Name,
		Latitude:                req.Latitude,
		Longitude:               req.Longitude,
		Zone:                    req.Zone,
		Status:                  models.SensorStatus(req.Status),
		SlopeAngleThreshold:     req.SlopeAngleThreshold,
		RainfallThreshold:       req.RainfallThreshold,
		EarthquakeThreshold:     req.EarthquakeThreshold,
		SaturationThreshold:     req.SaturationThreshold,
		VegetationMinThreshold:  req.VegetationMinThreshold,
		WaterProximityThreshold: req.WaterProximityThreshold,
		LandslideThreshold:      req.LandslideThreshold,
	}

	if err := rs.Geo.Sensor.UpsertSensor(sensorID, &sensor); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) GetLatestReading(c *gin.Context) {
	sensorID := c.Param("sensor_id")

	if !rs.CheckSensorLimiter(sensorID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	reading, err := rs.Geo.Sensor.GetLatestReading(sensorID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, reading)
}

func (rs *RestfulServer) GetAlerts(c *gin.Context) {
	sensorID := c.Param("sensor_id")

	if !rs.CheckSensorLimiter(sensorID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var alerts []models.Alert
	var err error
	if alerts, err = rs.Geo.Alert.GetSensorAlerts(sensorID); err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, alerts)
}

type AcknowledgeRequest struct {
	Actor string `json:"actor"`
}

var acknowledgeRequestSchema = z.Struct(z.Shape{
	"Actor": z.String().Min(1).Required(),
})

func (rs *RestfulServer) AcknowledgeAlert(c *gin.Context) {
	alertID := c.Param("alert_id")

	var req AcknowledgeRequest
	if err := acknowledgeRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	alert, err := rs.Geo.Alert.Acknowledge(alertID, req.Actor)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, alert)
}

type ResolveRequest struct {
	Actor      string `json:"actor"`
	Resolution string `json:"resolution"`
}

var resolveRequestSchema = z.Struct(z.Shape{
	"Actor":      z.String().Min(1).Required(),
	"Resolution": z.String().Min(1).Required(),
})

func (rs *RestfulServer) ResolveAlert(c *gin.Context) {
	alertID := c.Param("alert_id")

	var req ResolveRequest
	if err := resolveRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	alert, err := rs.Geo.Alert.Resolve(alertID, req.Actor, models.AlertStatus(req.Resolution))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, alert)
}

type EscalateRequest struct {
	EscalatedTo string `json:"escalated_to"`
}

var escalateRequestSchema = z.Struct(z.Shape{
	"EscalatedTo": z.String().Min(1).Required(),
})

func (rs *RestfulServer) EscalateAlert(c *gin.Context) {
	alertID := c.Param("alert_id")

	var req EscalateRequest
	if err := escalateRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	alert, err := rs.Geo.Alert.Escalate(alertID, req.EscalatedTo)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, alert)
}

type AlertActionRequest struct {
	Action string `json:"action"`
	Actor  string `json:"actor"`
	Notes  string `json:"notes"`
}

var alertActionRequestSchema = z.Struct(z.Shape{
	"Action": z.String().Min(1).Required(),
	"Actor":  z.String().Min(1).Required(),
	"Notes":  z.String(),
})

func (rs *RestfulServer) PostAlertAction(c *gin.Context) {
	alertID := c.Param("alert_id")

	var req AlertActionRequest
	if err := alertActionRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	alert, err := rs.Geo.Alert.RecordAction(alertID, req.Action, req.Actor, req.Notes)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, alert)
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	sensorID := c.Param("sensor_id")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(sensorID, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
