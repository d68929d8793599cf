package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"minesafe.xyz/mine-monitor-service/pkg/broadcast"
	"minesafe.xyz/mine-monitor-service/pkg/georisk"
)

type RestfulServer struct {
	Server           *gin.Engine
	Geo              *georisk.GeoRisk
	RateLimiterStore *georisk.RateLimiterStore
	Hub              *broadcast.Hub
}

func (rs *RestfulServer) GetLimiter(sensorID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(sensorID)
	}
}

func (rs *RestfulServer) CheckSensorLimiter(sensorID string) bool {
	limiter := rs.GetLimiter(sensorID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(sensorID string, sensorRate float64, sensorBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(sensorID, rate.Limit(sensorRate), sensorBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	sensors := rs.Server.Group("/sensors/:sensor_id")
	{
		sensors.PUT("", rs.UpsertSensor)
		sensors.POST("/readings", rs.PostReading)
		sensors.POST("/readings/batch", rs.PostReadingBatch)
		sensors.GET("/readings/latest", rs.GetLatestReading)
		sensors.GET("/alerts", rs.GetAlerts)
		sensors.POST("/limiter", rs.PostLimiter)
	}

	alerts := rs.Server.Group("/alerts/:alert_id")
	{
		alerts.POST("/acknowledge", rs.AcknowledgeAlert)
		alerts.POST("/resolve", rs.ResolveAlert)
		alerts.POST("/escalate", rs.EscalateAlert)
		alerts.POST("/actions", rs.PostAlertAction)
	}

	if rs.Hub != nil {
		rs.Server.GET("/ws", func(c *gin.Context) {
			_ = broadcast.ServeWs(rs.Hub, c.Writer, c.Request)
		})
	}
}
