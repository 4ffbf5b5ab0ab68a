package alertgate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/projectpulse/pulse/internal/domain"
	"github.com/projectpulse/pulse/internal/notify"
	"github.com/projectpulse/pulse/internal/repo"
)

// DefaultCooldown is the minimum spacing between consecutive unhealthy
// alerts for the same service. Recovery alerts bypass it.
const DefaultCooldown = 30 * time.Minute

// Decision is what a status transition implies: whether to persist an
// incident, and whether that incident warrants an alert.
type Decision struct {
	RecordIncident bool
	Alert          bool
}

// Decide maps (previous, next) to a Decision.
//
// An incident is recorded on any transition, and also while the service
// stays degraded or unhealthy, so an ongoing outage keeps an audit trail.
// A repeated healthy verdict records nothing. Alerts fire on unhealthy and
// on recovery (unhealthy -> healthy); nothing else.
func Decide(previous, next domain.Status) Decision {
	transition := previous != next
	recovery := previous == domain.StatusUnhealthy && next == domain.StatusHealthy
	return Decision{
		RecordIncident: transition || next == domain.StatusUnhealthy || next == domain.StatusDegraded,
		Alert:          next == domain.StatusUnhealthy || recovery,
	}
}

// Gate applies classifications to the incident ledger and decides when to
// notify. Applications for a single service are serialized; different
// services are independent.
type Gate struct {
	logger    *zap.Logger
	services  repo.ServiceStore
	incidents repo.IncidentStore
	notifier  notify.Notifier
	cooldown  time.Duration

	now func() time.Time

	mu    sync.Mutex
	locks map[domain.ServiceID]*sync.Mutex
}

func New(logger *zap.Logger, services repo.ServiceStore, incidents repo.IncidentStore, notifier notify.Notifier, cooldown time.Duration) *Gate {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Gate{
		logger:    logger,
		services:  services,
		incidents: incidents,
		notifier:  notifier,
		cooldown:  cooldown,
		now:       time.Now,
		locks:     make(map[domain.ServiceID]*sync.Mutex),
	}
}

func (g *Gate) lockFor(id domain.ServiceID) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.locks[id]
	if !ok {
		l = &sync.Mutex{}
		g.locks[id] = l
	}
	return l
}

func (g *Gate) forget(id domain.ServiceID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.locks, id)
}

// Apply records the classification for one service: updates the stored
// status, appends an incident when warranted, and sends a throttled alert.
// A persistence failure aborts this application; the notifier never does.
func (g *Gate) Apply(ctx context.Context, c domain.Classification) error {
	l := g.lockFor(c.ServiceID)
	l.Lock()
	defer l.Unlock()

	svc, err := g.services.Get(ctx, c.ServiceID)
	if err != nil {
		return fmt.Errorf("read service: %w", err)
	}
	if svc == nil {
		// deleted while the check was in flight; drop its lock entry so the
		// map does not grow with service churn. A racing applier recreates
		// the entry, sees the same nil service, and deletes it again.
		g.logger.Warn("gate_service_gone", zap.String("service_id", string(c.ServiceID)))
		g.forget(c.ServiceID)
		return nil
	}

	previous := svc.Status
	if err := g.services.SetStatus(ctx, c.ServiceID, c.Status); err != nil {
		return fmt.Errorf("set status: %w", err)
	}

	d := Decide(previous, c.Status)
	if !d.RecordIncident {
		return nil
	}

	inc := &domain.Incident{
		ServiceID: c.ServiceID,
		Status:    c.Status,
		Reason:    c.Reason,
		ErrorCode: c.ErrorCode,
		LatencyMS: c.LatencyMS,
		CreatedAt: g.now().UTC(),
	}
	if err := g.incidents.Append(ctx, inc); err != nil {
		return fmt.Errorf("append incident: %w", err)
	}

	g.logger.Info("gate_incident",
		zap.String("service_id", string(c.ServiceID)),
		zap.String("previous", string(previous)),
		zap.String("status", string(c.Status)),
		zap.String("reason", c.Reason),
	)

	if !d.Alert {
		return nil
	}

	// Throttle unhealthy alerts; recovery is always announced.
	if c.Status == domain.StatusUnhealthy {
		now := g.now()
		if svc.LastAlertSentAt != nil && now.Sub(*svc.LastAlertSentAt) < g.cooldown {
			g.logger.Info("gate_alert_throttled",
				zap.String("service_id", string(c.ServiceID)),
				zap.Time("last_alert_sent_at", *svc.LastAlertSentAt),
			)
			return nil
		}
		if err := g.services.SetLastAlert(ctx, c.ServiceID, now); err != nil {
			return fmt.Errorf("set last alert: %w", err)
		}
	}

	a := notify.Alert{
		ServiceID: c.ServiceID,
		Status:    c.Status,
		Reason:    c.Reason,
		LatencyMS: c.LatencyMS,
		Timestamp: inc.CreatedAt.Format(time.RFC3339),
		Email:     svc.AlertEmail,
	}
	if g.notifier == nil {
		return nil
	}
	if err := g.notifier.Send(ctx, a); err != nil {
		// best-effort: the ledger write above survives a delivery failure
		g.logger.Warn("gate_notify_error",
			zap.String("service_id", string(c.ServiceID)),
			zap.Error(err),
		)
	}
	return nil
}
