package repo

import (
	"context"

	"github.com/hamed0406/deadman/internal/domain"
)

// Ports (interfaces) — swap in any DB adapter later.
type RecordStore interface {
	// Append persists one record as an immutable row and assigns its ID.
	// Existing rows are never updated or deleted.
	Append(ctx context.Context, rec *domain.Record) error
	// Latest returns the most recent record for each distinct path,
	// ordered by TS descending across paths.
	Latest(ctx context.Context) ([]domain.Record, error)
}
