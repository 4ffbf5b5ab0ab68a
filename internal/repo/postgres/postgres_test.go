package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/projectpulse/pulse/internal/domain"
)

// Minimal schema so the test can run on a fresh DB/volume.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS services (
    id                 TEXT PRIMARY KEY,
    owner_id           TEXT NOT NULL DEFAULT '',
    base_url           TEXT NOT NULL,
    health_path        TEXT NOT NULL DEFAULT '/health',
    check_interval     INT  NOT NULL DEFAULT 5,
    alert_email        TEXT NOT NULL DEFAULT '',
    status             TEXT NOT NULL DEFAULT 'unknown',
    last_checked_at    TIMESTAMPTZ,
    last_alert_sent_at TIMESTAMPTZ,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS incidents (
    id         TEXT PRIMARY KEY,
    service_id TEXT NOT NULL REFERENCES services(id) ON DELETE CASCADE,
    status     TEXT NOT NULL,
    reason     TEXT NOT NULL,
    error_code TEXT,
    latency_ms BIGINT NOT NULL DEFAULT 0,
    suggestion TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func ensureSchema(t *testing.T, dsn string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	defer pool.Close()
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
}

func openStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("PULSE_DATABASE_URL")
	if dsn == "" {
		t.Skip("PULSE_DATABASE_URL not set; skipping Postgres integration test")
	}
	ensureSchema(t, dsn)

	store, err := New(context.Background(), dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("New store: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

// Unique owner per run so list assertions don't collide with rows left by
// previous runs.
func testOwner() string {
	return fmt.Sprintf("owner-%d", time.Now().UTC().UnixNano())
}

func TestPostgresStore_CreateGetRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	owner := testOwner()

	svc := &domain.Service{
		OwnerID:          owner,
		BaseURL:          "https://example.com",
		HealthPath:       "/health",
		CheckIntervalMin: 5,
		AlertEmail:       "ops@example.com",
	}
	if err := store.Create(ctx, svc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if svc.ID == "" {
		t.Fatalf("expected ID to be set")
	}

	got, err := store.Get(ctx, svc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatalf("service not found after Create")
	}
	if got.Status != domain.StatusUnknown {
		t.Fatalf("status = %s, want unknown", got.Status)
	}
	if got.LastCheckedAt != nil || got.LastAlertSentAt != nil {
		t.Fatalf("fresh service must scan nil timestamps, got %v / %v",
			got.LastCheckedAt, got.LastAlertSentAt)
	}
	if got.OwnerID != owner || got.BaseURL != svc.BaseURL || got.CheckIntervalMin != 5 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// missing id is nil, nil — not an error
	missing, err := store.Get(ctx, "no-such-id")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing service, got %+v err=%v", missing, err)
	}

	byOwner, err := store.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(byOwner) != 1 || byOwner[0].ID != svc.ID {
		t.Fatalf("ListByOwner: want exactly our service, got %d rows", len(byOwner))
	}
}

func TestPostgresStore_MarkCheckedBatch(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	owner := testOwner()

	mk := func() *domain.Service {
		svc := &domain.Service{OwnerID: owner, BaseURL: "https://a", HealthPath: "/health", CheckIntervalMin: 1}
		if err := store.Create(ctx, svc); err != nil {
			t.Fatalf("Create: %v", err)
		}
		return svc
	}
	a, b, c := mk(), mk(), mk()

	at := time.Now().UTC().Truncate(time.Millisecond)
	if err := store.MarkChecked(ctx, []domain.ServiceID{a.ID, b.ID}, at); err != nil {
		t.Fatalf("MarkChecked: %v", err)
	}

	for _, id := range []domain.ServiceID{a.ID, b.ID} {
		got, err := store.Get(ctx, id)
		if err != nil || got == nil {
			t.Fatalf("Get %s: %+v err=%v", id, got, err)
		}
		if got.LastCheckedAt == nil || !got.LastCheckedAt.Equal(at) {
			t.Fatalf("last_checked_at = %v, want %v", got.LastCheckedAt, at)
		}
	}

	// c was not in the batch
	got, _ := store.Get(ctx, c.ID)
	if got.LastCheckedAt != nil {
		t.Fatalf("unbatched service must stay unchecked, got %v", got.LastCheckedAt)
	}

	// empty batch is a no-op, not an error
	if err := store.MarkChecked(ctx, nil, at); err != nil {
		t.Fatalf("empty MarkChecked: %v", err)
	}
}

func TestPostgresStore_StatusAndLastAlert(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	svc := &domain.Service{OwnerID: testOwner(), BaseURL: "https://a", HealthPath: "/health", CheckIntervalMin: 1}
	if err := store.Create(ctx, svc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.SetStatus(ctx, svc.ID, domain.StatusUnhealthy); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	at := time.Now().UTC().Truncate(time.Millisecond)
	if err := store.SetLastAlert(ctx, svc.ID, at); err != nil {
		t.Fatalf("SetLastAlert: %v", err)
	}

	got, _ := store.Get(ctx, svc.ID)
	if got.Status != domain.StatusUnhealthy {
		t.Fatalf("status = %s, want unhealthy", got.Status)
	}
	if got.LastAlertSentAt == nil || !got.LastAlertSentAt.Equal(at) {
		t.Fatalf("last_alert_sent_at = %v, want %v", got.LastAlertSentAt, at)
	}
}

func TestPostgresStore_IncidentsAndCascadeDelete(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	svc := &domain.Service{OwnerID: testOwner(), BaseURL: "https://a", HealthPath: "/health", CheckIntervalMin: 1}
	if err := store.Create(ctx, svc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// no error code: must round-trip as empty, not as a scan failure
	first := &domain.Incident{
		ServiceID: svc.ID,
		Status:    domain.StatusDegraded,
		Reason:    "High Latency: 6200ms",
		LatencyMS: 6200,
	}
	if err := store.Append(ctx, first); err != nil {
		t.Fatalf("Append: %v", err)
	}
	second := &domain.Incident{
		ServiceID: svc.ID,
		Status:    domain.StatusUnhealthy,
		Reason:    "ECONNREFUSED",
		ErrorCode: "ECONNREFUSED",
		LatencyMS: 13,
		CreatedAt: time.Now().UTC().Add(time.Second),
	}
	if err := store.Append(ctx, second); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := store.Find(ctx, first.ID)
	if err != nil || got == nil {
		t.Fatalf("Find: %+v err=%v", got, err)
	}
	if got.ErrorCode != "" || got.Suggestion != "" {
		t.Fatalf("nullable columns must scan empty, got %q / %q", got.ErrorCode, got.Suggestion)
	}

	if err := store.AttachSuggestion(ctx, first.ID, "check upstream latency"); err != nil {
		t.Fatalf("AttachSuggestion: %v", err)
	}
	got, _ = store.Find(ctx, first.ID)
	if got.Suggestion != "check upstream latency" {
		t.Fatalf("suggestion = %q", got.Suggestion)
	}

	incs, err := store.ListByService(ctx, svc.ID, 0)
	if err != nil {
		t.Fatalf("ListByService: %v", err)
	}
	if len(incs) != 2 {
		t.Fatalf("want 2 incidents, got %d", len(incs))
	}
	if !incs[0].CreatedAt.After(incs[1].CreatedAt) {
		t.Fatalf("incidents must come back newest first")
	}
	capped, err := store.ListByService(ctx, svc.ID, 1)
	if err != nil || len(capped) != 1 {
		t.Fatalf("limit 1: got %d err=%v", len(capped), err)
	}

	if err := store.Delete(ctx, svc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s, _ := store.Get(ctx, svc.ID); s != nil {
		t.Fatalf("service survived Delete")
	}
	if inc, _ := store.Find(ctx, first.ID); inc != nil {
		t.Fatalf("incident survived cascade Delete")
	}
}
