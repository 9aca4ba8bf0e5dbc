package store

import (
	"context"
	"time"
)

// Repo defines the storage interface for sensor records.
//
// All operations are safe for concurrent use; single-row atomicity is
// provided by the storage engine, no external locking is required.
type Repo interface {
	// Insert stores a new record and returns its assigned id. A zero ts
	// means "assign the insertion time".
	Insert(ctx context.Context, topic, payload string, ts time.Time) (int64, error)

	// ListRecent returns at most limit records ordered newest first.
	// An empty topic matches all topics. No matches is an empty slice,
	// not an error.
	ListRecent(ctx context.Context, topic string, limit int) ([]SensorRecord, error)

	// Update replaces the payload of an existing record in place.
	// Topic and timestamp are left untouched. Returns ErrNotFound if
	// the id does not exist.
	Update(ctx context.Context, id int64, payload string) error

	// Delete removes a record. Returns ErrNotFound if the id does not
	// exist.
	Delete(ctx context.Context, id int64) error
}
