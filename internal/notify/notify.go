package notify

import (
	"context"
	"fmt"

	"github.com/projectpulse/pulse/internal/domain"
)

// Alert is the rendered payload handed to delivery channels.
type Alert struct {
	ServiceID domain.ServiceID `json:"service_id"`
	Status    domain.Status    `json:"status"`
	Reason    string           `json:"reason"`
	LatencyMS int64            `json:"latency_ms"`
	Timestamp string           `json:"timestamp"` // ISO 8601
	Email     string           `json:"email,omitempty"`
}

// Subject renders the alert subject line.
func (a Alert) Subject() string {
	return fmt.Sprintf("[Pulse] Service %s - Alert", a.Status)
}

// Body renders the plain-text alert message.
func (a Alert) Body() string {
	return fmt.Sprintf(
		"Service ID: %s\nStatus: %s\nReason: %s\nLatency: %dms\nTimestamp: %s",
		a.ServiceID, a.Status, a.Reason, a.LatencyMS, a.Timestamp,
	)
}

// Notifier delivers an alert. Delivery is best-effort; callers log failures
// and never escalate them into the pipeline.
type Notifier interface {
	Send(ctx context.Context, a Alert) error
}

type Multi []Notifier

func (m Multi) Send(ctx context.Context, a Alert) error {
	var firstErr error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, a); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
