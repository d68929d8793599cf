package georisk

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"minesafe.xyz/mine-monitor-service/pkg/common"
	"minesafe.xyz/mine-monitor-service/pkg/models"
)

// EscalationThresholds maps an alert priority to how long an ACTIVE alert may
// age before the sweep auto-escalates it.
type EscalationThresholds map[models.AlertPriority]time.Duration

func DefaultEscalationThresholds() EscalationThresholds {
	return EscalationThresholds{
		models.AlertPriorityCritical: 2 * time.Minute,
		models.AlertPriorityHigh:     5 * time.Minute,
		models.AlertPriorityMedium:   15 * time.Minute,
		models.AlertPriorityLow:      30 * time.Minute,
	}
}

const DefaultSweepPeriod = 60 * time.Second

func (g *GeoRisk) escalationThresholds() EscalationThresholds {
	if g.Escalation != nil {
		return g.Escalation
	}
	return DefaultEscalationThresholds()
}

// findAlertsNeedingEscalation selects ACTIVE alerts below the escalation cap
// whose age (measured from trigger time, not last escalation) exceeds their
// priority's threshold. Measuring from the last escalation instead would mean
// comparing against last_escalated_at here.
func (g *GeoRisk) findAlertsNeedingEscalation(now time.Time) ([]models.Alert, error) {
	var candidates []models.Alert
	err := g.Db.Conn.
		Where("status = ? AND escalation_level < ?", models.AlertStatusActive, MaxEscalationLevel).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	thresholds := g.escalationThresholds()

	var overdue []models.Alert
	for _, alert := range candidates {
		threshold, ok := thresholds[alert.Priority]
		if !ok {
			continue
		}
		if now.Sub(alert.TriggeredAt) > threshold {
			overdue = append(overdue, alert)
		}
	}
	return overdue, nil
}

// sweepOverdueAlerts runs one auto-escalation pass. Each qualifying alert is
// escalated once; failures (including losing a version race to an operator
// transition) are logged and skipped.
func (g *GeoRisk) sweepOverdueAlerts(now time.Time) (int, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameGeoRiskCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategorySweep),
	)

	overdue, err := g.findAlertsNeedingEscalation(now)
	if err != nil {
		return 0, err
	}

	escalated := 0
	for _, alert := range overdue {
		if _, err := g.escalateAlert(alert.AlertID, AutoEscalationActor); err != nil {
			logger.Warn("Auto-escalation skipped", zap.String("alert_id", alert.AlertID), zap.Error(err))
			continue
		}
		escalated++
	}

	if escalated > 0 {
		logger.Info("Auto-escalation sweep completed",
			zap.Int("overdue", len(overdue)), zap.Int("escalated", escalated))
	}
	return escalated, nil
}

// Sweeper periodically runs the auto-escalation pass. A tick that fires while
// the previous pass is still running is skipped; the pass itself is idempotent
// per alert, the guard only bounds overlap.
type Sweeper struct {
	georisk *GeoRisk
	period  time.Duration

	busy atomic.Bool
	stop chan struct{}
	done chan struct{}
}

func (g *GeoRisk) NewSweeper(period time.Duration) *Sweeper {
	if period <= 0 {
		period = DefaultSweepPeriod
	}
	return &Sweeper{
		georisk: g,
		period:  period,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	logger := common.GetLoggerWith(
		common.LoggerNameGeoRiskCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategorySweep),
	)

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.period)
		defer ticker.Stop()

		logger.Info("Auto-escalation sweeper started", zap.Duration("period", s.period))

		for {
			select {
			case <-s.stop:
				logger.Info("Auto-escalation sweeper stopped")
				return
			case <-ticker.C:
				if !s.busy.CompareAndSwap(false, true) {
					logger.Warn("Previous sweep still running, skipping tick")
					continue
				}
				if _, err := s.georisk.Alert.SweepOverdueAlerts(time.Now()); err != nil {
					logger.Error("Auto-escalation sweep failed", zap.Error(err))
				}
				s.busy.Store(false)
			}
		}
	}()
}

func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}
