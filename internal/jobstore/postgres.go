package jobstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stylemate/internal/domain"
)

// PostgresStore persists job records as single rows in the outfit_jobs table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a job store backed by PostgreSQL.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the outfit_jobs table when it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS outfit_jobs (
    id              TEXT PRIMARY KEY,
    requester       TEXT NOT NULL,
    event_label     TEXT NOT NULL,
    archetype       JSONB NOT NULL,
    reference_ref   TEXT NOT NULL,
    face_ref        TEXT NOT NULL,
    target_size     TEXT NOT NULL,
    requested_count INT NOT NULL,
    status          TEXT NOT NULL,
    output_refs     TEXT[] NOT NULL DEFAULT '{}',
    last_error      TEXT NOT NULL DEFAULT '',
    updated_at      TIMESTAMPTZ NOT NULL
);
`)
	if err != nil {
		return fmt.Errorf("jobstore: migrate: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, id string) (*domain.JobRecord, error) {
	query := `
SELECT id, requester, event_label, archetype, reference_ref, face_ref, target_size,
       requested_count, status, output_refs, last_error, updated_at
FROM outfit_jobs
WHERE id = $1;
`
	row := s.pool.QueryRow(ctx, query, id)
	var rec domain.JobRecord
	if err := row.Scan(
		&rec.ID,
		&rec.Requester,
		&rec.EventLabel,
		&rec.Archetype,
		&rec.ReferenceImageRef,
		&rec.FaceImageRef,
		&rec.TargetSize,
		&rec.RequestedCount,
		&rec.Status,
		&rec.OutputImageRefs,
		&rec.LastError,
		&rec.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("jobstore: select %s: %w", id, err)
	}
	return &rec, nil
}

// outputRefsParam coalesces a nil slice to an empty array. pgx encodes a nil
// []string as SQL NULL, which the NOT NULL output_refs column rejects, and
// freshly created and failed records carry a nil slice.
func outputRefsParam(refs []string) []string {
	if refs == nil {
		return []string{}
	}
	return refs
}

// Put implements Store. The actor owns the record, so a plain upsert is enough.
func (s *PostgresStore) Put(ctx context.Context, rec *domain.JobRecord) error {
	query := `
INSERT INTO outfit_jobs (id, requester, event_label, archetype, reference_ref, face_ref,
                         target_size, requested_count, status, output_refs, last_error, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO UPDATE SET
    status      = EXCLUDED.status,
    output_refs = EXCLUDED.output_refs,
    last_error  = EXCLUDED.last_error,
    updated_at  = EXCLUDED.updated_at;
`
	_, err := s.pool.Exec(ctx, query,
		rec.ID,
		rec.Requester,
		rec.EventLabel,
		rec.Archetype,
		rec.ReferenceImageRef,
		rec.FaceImageRef,
		rec.TargetSize,
		rec.RequestedCount,
		rec.Status,
		outputRefsParam(rec.OutputImageRefs),
		rec.LastError,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("jobstore: upsert %s: %w", rec.ID, err)
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
