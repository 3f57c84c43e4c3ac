package repository

import (
	"context"

	"so4tdelete/internal/deletion/model"
)

// HistoryRepository defines the interface for deletion history operations
type HistoryRepository interface {
	// CreateHistory creates a new history record (append-only)
	CreateHistory(ctx context.Context, history *model.DeletionHistory) error
	// FindHistory returns the newest records first
	FindHistory(ctx context.Context, filter model.HistoryFilter) ([]*model.DeletionHistory, error)
	// EnsureHistoryIndexes prepares the store for efficient querying
	EnsureHistoryIndexes(ctx context.Context) error
	Close(ctx context.Context) error
}
