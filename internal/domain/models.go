package domain

import "time"

type ServiceID string

// Status is the canonical health verdict for a service.
type Status string

const (
	StatusUnknown   Status = "unknown"
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Service is a monitored target. Status is mutated only by the alert gate
// after a classification; LastCheckedAt only by the scheduler at dispatch.
type Service struct {
	ID               ServiceID  `json:"id"`
	OwnerID          string     `json:"owner_id"`
	BaseURL          string     `json:"base_url"`
	HealthPath       string     `json:"health_path"`
	CheckIntervalMin int        `json:"check_interval"`
	AlertEmail       string     `json:"alert_email"`
	Status           Status     `json:"status"`
	LastCheckedAt    *time.Time `json:"last_checked_at"`
	LastAlertSentAt  *time.Time `json:"last_alert_sent_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

// IsDue reports whether the service's check interval has elapsed since its
// last check. A never-checked service is always due; the exact boundary
// now == last + interval counts as due.
func (s *Service) IsDue(now time.Time) bool {
	if s.LastCheckedAt == nil {
		return true
	}
	next := s.LastCheckedAt.Add(time.Duration(s.CheckIntervalMin) * time.Minute)
	return !now.Before(next)
}

// Incident is an immutable record of a status event for one service.
// Only the suggestion annotation may be attached after creation.
type Incident struct {
	ID         string    `json:"id"`
	ServiceID  ServiceID `json:"service_id"`
	Status     Status    `json:"status"`
	Reason     string    `json:"reason"`
	ErrorCode  string    `json:"error_code,omitempty"`
	LatencyMS  int64     `json:"latency_ms"`
	Suggestion string    `json:"suggestion,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
