package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/projectpulse/pulse/internal/domain"
)

func (s *Store) Create(ctx context.Context, svc *domain.Service) error {
	if svc.ID == "" {
		svc.ID = domain.ServiceID(uuid.NewString())
	}
	if svc.CreatedAt.IsZero() {
		svc.CreatedAt = time.Now().UTC()
	}
	if svc.Status == "" {
		svc.Status = domain.StatusUnknown
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO services
		   (id, owner_id, base_url, health_path, check_interval, alert_email, status, created_at)
		 VALUES
		   ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(svc.ID), svc.OwnerID, svc.BaseURL, svc.HealthPath,
		svc.CheckIntervalMin, svc.AlertEmail, string(svc.Status), svc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

const serviceCols = `id, owner_id, base_url, health_path, check_interval,
       alert_email, status, last_checked_at, last_alert_sent_at, created_at`

func (s *Store) Get(ctx context.Context, id domain.ServiceID) (*domain.Service, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+serviceCols+` FROM services WHERE id=$1`, string(id))
	svc, err := scanService(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return svc, nil
}

func (s *Store) List(ctx context.Context) ([]*domain.Service, error) {
	return s.listWhere(ctx, `SELECT `+serviceCols+` FROM services ORDER BY created_at DESC, id DESC`)
}

func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Service, error) {
	return s.listWhere(ctx,
		`SELECT `+serviceCols+` FROM services WHERE owner_id=$1 ORDER BY created_at DESC, id DESC`,
		ownerID)
}

func (s *Store) listWhere(ctx context.Context, q string, args ...any) ([]*domain.Service, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var out []*domain.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id domain.ServiceID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// incidents first, then the service itself
	if _, err := tx.Exec(ctx, `DELETE FROM incidents WHERE service_id=$1`, string(id)); err != nil {
		return fmt.Errorf("delete incidents: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM services WHERE id=$1`, string(id)); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *Store) MarkChecked(ctx context.Context, ids []domain.ServiceID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	strIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		strIDs = append(strIDs, string(id))
	}
	// single batch update: commits before any check is dispatched
	_, err := s.pool.Exec(ctx,
		`UPDATE services SET last_checked_at=$1 WHERE id = ANY($2)`, at, strIDs)
	if err != nil {
		return fmt.Errorf("mark checked: %w", err)
	}
	return nil
}

func (s *Store) SetStatus(ctx context.Context, id domain.ServiceID, status domain.Status) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE services SET status=$1 WHERE id=$2`, string(status), string(id))
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return nil
}

func (s *Store) SetLastAlert(ctx context.Context, id domain.ServiceID, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE services SET last_alert_sent_at=$1 WHERE id=$2`, at, string(id))
	if err != nil {
		return fmt.Errorf("set last alert: %w", err)
	}
	return nil
}

func scanService(row pgx.Row) (*domain.Service, error) {
	var (
		svc         domain.Service
		id, status  string
		lastChecked *time.Time
		lastAlert   *time.Time
	)
	if err := row.Scan(&id, &svc.OwnerID, &svc.BaseURL, &svc.HealthPath,
		&svc.CheckIntervalMin, &svc.AlertEmail, &status, &lastChecked, &lastAlert, &svc.CreatedAt); err != nil {
		return nil, err
	}
	svc.ID = domain.ServiceID(id)
	svc.Status = domain.Status(status)
	svc.LastCheckedAt = lastChecked
	svc.LastAlertSentAt = lastAlert
	return &svc, nil
}
