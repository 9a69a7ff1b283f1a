// Package jobstore persists the durable per-job composite record. Each record
// is read and written as a whole; the owning job actor is the only writer.
package jobstore

import (
	"context"

	"stylemate/internal/domain"
)

// Store is the durable key-value contract for job records.
type Store interface {
	// Get loads the record for id, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.JobRecord, error)
	// Put writes the whole record, replacing any previous version.
	Put(ctx context.Context, rec *domain.JobRecord) error
}
