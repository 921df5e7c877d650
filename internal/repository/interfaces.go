package repository

import (
	"context"

	"github.com/vytor/econgraph/internal/models"
)

// RecordRepository handles named durable records
type RecordRepository interface {
	// Get returns nil, nil when no record has the name.
	Get(ctx context.Context, name string) (*models.Record, error)
	Put(ctx context.Context, name string, value []byte) error
	Delete(ctx context.Context, name string) error
}
