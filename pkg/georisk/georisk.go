package georisk

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"minesafe.xyz/mine-monitor-service/pkg/broadcast"
	"minesafe.xyz/mine-monitor-service/pkg/db"
	"minesafe.xyz/mine-monitor-service/pkg/models"
	"minesafe.xyz/mine-monitor-service/pkg/predict"
)

type IIngest interface {
	IngestReading(ctx context.Context, sensorID string, input *models.Reading) (*models.Reading, *models.Alert, error)
	IngestBatch(ctx context.Context, sensorID string, inputs []*models.Reading) ([]*models.Reading, []*models.Alert, error)
}

type IAlert interface {
	CreateAlert(reading *models.Reading, classification *predict.Classification, sensor *models.Sensor) (*models.Alert, error)
	Acknowledge(alertID string, actor string) (*models.Alert, error)
	Resolve(alertID string, actor string, resolution models.AlertStatus) (*models.Alert, error)
	Escalate(alertID string, escalatedTo string) (*models.Alert, error)
	RecordAction(alertID string, action string, actor string, notes string) (*models.Alert, error)
	GetSensorAlerts(sensorID string) ([]models.Alert, error)
	SweepOverdueAlerts(now time.Time) (int, error)
}

type ISensor interface {
	UpsertSensor(sensorID string, input *models.Sensor) error
	GetSensor(sensorID string) (*models.Sensor, error)
	GetLatestReading(sensorID string) (*models.Reading, error)
}

// GeoRisk is the core aggregate: persistence handle, classifier strategies,
// broadcast sink and the service interfaces built on top of them.
type GeoRisk struct {
	Db db.DB

	// Remote may be nil (no prediction service configured); Fallback must not.
	Remote   predict.Classifier
	Fallback predict.Classifier
	// PredictClient backs batch classification; nil means batches are
	// classified item by item with the fallback.
	PredictClient *predict.Client
	Publisher     broadcast.Publisher

	// Escalation overrides the per-priority auto-escalation thresholds;
	// nil means DefaultEscalationThresholds().
	Escalation EscalationThresholds

	Ingest IIngest
	Alert  IAlert
	Sensor ISensor

	sensorCache     *cache.Cache
	sensorCacheOnce sync.Once
}

type ServiceOpts struct {
	Ingest IIngest
	Alert  IAlert
	Sensor ISensor
}

func (g *GeoRisk) WithServices(opts ServiceOpts) *GeoRisk {
	if opts.Ingest != nil {
		g.Ingest = opts.Ingest
	}
	if opts.Alert != nil {
		g.Alert = opts.Alert
	}
	if opts.Sensor != nil {
		g.Sensor = opts.Sensor
	}
	return g
}

const (
	sensorCacheTTL     = 5 * time.Minute
	sensorCacheCleanup = 10 * time.Minute
)

func (g *GeoRisk) getSensorCache() *cache.Cache {
	g.sensorCacheOnce.Do(func() {
		g.sensorCache = cache.New(sensorCacheTTL, sensorCacheCleanup)
	})
	return g.sensorCache
}

// publish is fire and forget; a nil Publisher is fine (tests, one-off tools).
func (g *GeoRisk) publish(topic string, sensorID string, data any) {
	if g.Publisher == nil {
		return
	}
	g.Publisher.Publish(topic, sensorID, data)
}
