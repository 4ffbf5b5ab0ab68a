package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/projectpulse/pulse/internal/domain"
	"github.com/projectpulse/pulse/internal/repo"
)

var _ repo.ServiceStore = (*Store)(nil)
var _ repo.IncidentStore = (*Store)(nil)

// Store is the in-memory adapter, used when no DATABASE_URL is configured
// and as the store double in tests.
type Store struct {
	mu        sync.RWMutex
	services  map[domain.ServiceID]*domain.Service
	incidents []*domain.Incident
}

func New() *Store {
	return &Store{
		services:  make(map[domain.ServiceID]*domain.Service),
		incidents: make([]*domain.Incident, 0, 128),
	}
}

// ---- ServiceStore ----

func (m *Store) Create(ctx context.Context, s *domain.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		s.ID = domain.ServiceID(uuid.NewString())
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if s.Status == "" {
		s.Status = domain.StatusUnknown
	}
	cp := *s
	m.services[s.ID] = &cp
	return nil
}

func (m *Store) Get(ctx context.Context, id domain.ServiceID) (*domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.services[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *Store) List(ctx context.Context) ([]*domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Service, 0, len(m.services))
	for _, s := range m.services {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Store) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Service
	for _, s := range m.services {
		if s.OwnerID == ownerID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Store) Delete(ctx context.Context, id domain.ServiceID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.services, id)

	// referential cleanup: incidents go with the service
	kept := m.incidents[:0]
	for _, inc := range m.incidents {
		if inc.ServiceID != id {
			kept = append(kept, inc)
		}
	}
	m.incidents = kept
	return nil
}

func (m *Store) MarkChecked(ctx context.Context, ids []domain.ServiceID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if s, ok := m.services[id]; ok {
			t := at
			s.LastCheckedAt = &t
		}
	}
	return nil
}

func (m *Store) SetStatus(ctx context.Context, id domain.ServiceID, status domain.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.services[id]; ok {
		s.Status = status
	}
	return nil
}

func (m *Store) SetLastAlert(ctx context.Context, id domain.ServiceID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.services[id]; ok {
		t := at
		s.LastAlertSentAt = &t
	}
	return nil
}

// ---- IncidentStore ----

func (m *Store) Append(ctx context.Context, inc *domain.Incident) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inc.ID == "" {
		inc.ID = uuid.NewString()
	}
	if inc.CreatedAt.IsZero() {
		inc.CreatedAt = time.Now().UTC()
	}
	cp := *inc
	m.incidents = append(m.incidents, &cp)
	return nil
}

func (m *Store) Find(ctx context.Context, id string) (*domain.Incident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, inc := range m.incidents {
		if inc.ID == id {
			cp := *inc
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *Store) Recent(ctx context.Context, limit int) ([]*domain.Incident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.newestFirst(m.incidents, limit), nil
}

func (m *Store) ListByService(ctx context.Context, id domain.ServiceID, limit int) ([]*domain.Incident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var filtered []*domain.Incident
	for _, inc := range m.incidents {
		if inc.ServiceID == id {
			filtered = append(filtered, inc)
		}
	}
	return m.newestFirst(filtered, limit), nil
}

func (m *Store) AttachSuggestion(ctx context.Context, id, suggestion string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inc := range m.incidents {
		if inc.ID == id {
			inc.Suggestion = suggestion
			return nil
		}
	}
	return nil
}

func (m *Store) newestFirst(incs []*domain.Incident, limit int) []*domain.Incident {
	out := make([]*domain.Incident, 0, len(incs))
	for _, inc := range incs {
		cp := *inc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
