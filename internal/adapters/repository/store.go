// Package repository holds the immutable prediction dataset and its lookups.
package repository

import (
	"context"

	"github.com/okian/betsafe/internal/domain/model"
)

// Store provides read-only access to the loaded prediction dataset.
type Store interface {
	// Find returns the first record, in dataset order, whose player name
	// contains query (case-insensitive). Returns ErrNotFound otherwise.
	Find(ctx context.Context, query string) (model.PredictionRecord, error)

	// Get returns the record whose player name equals player (case-insensitive).
	Get(ctx context.Context, player string) (model.PredictionRecord, error)

	// Head returns the first n records in dataset order.
	Head(ctx context.Context, n int) ([]model.PredictionRecord, error)

	// Count returns the number of records in the dataset.
	Count(ctx context.Context) int
}
