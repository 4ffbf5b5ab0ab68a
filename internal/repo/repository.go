package repo

import (
	"context"
	"time"

	"github.com/projectpulse/pulse/internal/domain"
)

// Ports (interfaces) — swap in any DB adapter later.

type ServiceStore interface {
	Create(ctx context.Context, s *domain.Service) error
	// Get returns nil, nil when the service does not exist.
	Get(ctx context.Context, id domain.ServiceID) (*domain.Service, error)
	List(ctx context.Context) ([]*domain.Service, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Service, error)
	// Delete removes the service and all of its incidents.
	Delete(ctx context.Context, id domain.ServiceID) error

	// MarkChecked sets last_checked_at for the whole batch in one call.
	// The scheduler relies on this committing before any check is dispatched.
	MarkChecked(ctx context.Context, ids []domain.ServiceID, at time.Time) error
	SetStatus(ctx context.Context, id domain.ServiceID, status domain.Status) error
	SetLastAlert(ctx context.Context, id domain.ServiceID, at time.Time) error
}

type IncidentStore interface {
	Append(ctx context.Context, inc *domain.Incident) error
	// Find returns nil, nil when the incident does not exist.
	Find(ctx context.Context, id string) (*domain.Incident, error)
	// Recent and ListByService return newest first; limit <= 0 means no cap.
	Recent(ctx context.Context, limit int) ([]*domain.Incident, error)
	ListByService(ctx context.Context, id domain.ServiceID, limit int) ([]*domain.Incident, error)
	AttachSuggestion(ctx context.Context, id, suggestion string) error
}
