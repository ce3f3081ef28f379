package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists the trail in PostgreSQL for durable retention.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the trail table when absent. Called once at startup.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS audit_events (
			id            UUID PRIMARY KEY,
			category      TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL,
			operation     TEXT NOT NULL,
			substrate_id  TEXT NOT NULL,
			lens_id       TEXT NOT NULL,
			fabricated    BOOLEAN NOT NULL,
			source        TEXT NOT NULL,
			request_id    TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_events
			(id, category, created_at, operation, substrate_id, lens_id, fabricated, source, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.ID, string(event.Category), event.Timestamp, event.Operation,
		event.SubstrateIDHex, event.LensIDHex, event.Fabricated, event.Source, event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, category, created_at, operation, substrate_id, lens_id, fabricated, source, request_id
		FROM audit_events
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var category string
		if err := rows.Scan(&e.ID, &category, &e.Timestamp, &e.Operation,
			&e.SubstrateIDHex, &e.LensIDHex, &e.Fabricated, &e.Source, &e.RequestID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = EventCategory(category)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
