// Package repository stores screening results and derives population
// statistics from them.
package repository

import (
	"context"

	"github.com/okian/nutriscreen/internal/domain/types"
)

// Store provides read/write access to screening results.
type Store interface {
	// Save stores rec, replacing any earlier record with the same screening ID.
	Save(ctx context.Context, rec types.Record) error

	// Get returns the record of a screening, or ErrNotFound.
	Get(ctx context.Context, screeningID string) (types.Record, error)

	// TopRisk returns up to n successful records with the highest risk
	// score, highest first.
	TopRisk(ctx context.Context, n int) ([]types.Record, error)

	// Stats summarizes every stored record.
	Stats(ctx context.Context) types.Stats

	// Count returns the number of stored records.
	Count(ctx context.Context) int
}
