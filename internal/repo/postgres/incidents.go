package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/projectpulse/pulse/internal/domain"
)

func (s *Store) Append(ctx context.Context, inc *domain.Incident) error {
	if inc.ID == "" {
		inc.ID = uuid.NewString()
	}
	if inc.CreatedAt.IsZero() {
		inc.CreatedAt = time.Now().UTC()
	}
	var errCode *string
	if inc.ErrorCode != "" {
		errCode = &inc.ErrorCode
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO incidents
		   (id, service_id, status, reason, error_code, latency_ms, created_at)
		 VALUES
		   ($1, $2, $3, $4, $5, $6, $7)`,
		inc.ID, string(inc.ServiceID), string(inc.Status), inc.Reason,
		errCode, inc.LatencyMS, inc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}
	return nil
}

const incidentCols = `id, service_id, status, reason, error_code, latency_ms, suggestion, created_at`

func (s *Store) Find(ctx context.Context, id string) (*domain.Incident, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+incidentCols+` FROM incidents WHERE id=$1`, id)
	inc, err := scanIncident(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get incident: %w", err)
	}
	return inc, nil
}

func (s *Store) Recent(ctx context.Context, limit int) ([]*domain.Incident, error) {
	if limit <= 0 {
		return s.listIncidents(ctx,
			`SELECT `+incidentCols+` FROM incidents ORDER BY created_at DESC`)
	}
	return s.listIncidents(ctx,
		`SELECT `+incidentCols+` FROM incidents ORDER BY created_at DESC LIMIT $1`, limit)
}

func (s *Store) ListByService(ctx context.Context, id domain.ServiceID, limit int) ([]*domain.Incident, error) {
	if limit <= 0 {
		return s.listIncidents(ctx,
			`SELECT `+incidentCols+` FROM incidents WHERE service_id=$1 ORDER BY created_at DESC`,
			string(id))
	}
	return s.listIncidents(ctx,
		`SELECT `+incidentCols+` FROM incidents WHERE service_id=$1 ORDER BY created_at DESC LIMIT $2`,
		string(id), limit)
}

func (s *Store) listIncidents(ctx context.Context, q string, args ...any) ([]*domain.Incident, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	var out []*domain.Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

func (s *Store) AttachSuggestion(ctx context.Context, id, suggestion string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE incidents SET suggestion=$1 WHERE id=$2`, suggestion, id)
	if err != nil {
		return fmt.Errorf("attach suggestion: %w", err)
	}
	return nil
}

func scanIncident(row pgx.Row) (*domain.Incident, error) {
	var (
		inc                 domain.Incident
		svcID, status       string
		errCode, suggestion *string
	)
	if err := row.Scan(&inc.ID, &svcID, &status, &inc.Reason, &errCode,
		&inc.LatencyMS, &suggestion, &inc.CreatedAt); err != nil {
		return nil, err
	}
	inc.ServiceID = domain.ServiceID(svcID)
	inc.Status = domain.Status(status)
	if errCode != nil {
		inc.ErrorCode = *errCode
	}
	if suggestion != nil {
		inc.Suggestion = *suggestion
	}
	return &inc, nil
}
