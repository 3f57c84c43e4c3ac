package service

import (
	"context"

	"so4tdelete/internal/deletion/client"
	"so4tdelete/internal/deletion/model"

	"github.com/stretchr/testify/mock"
)

// MockTeamsAPI is a mock implementation of TeamsAPI for testing.
type MockTeamsAPI struct {
	mock.Mock
}

func (m *MockTeamsAPI) BaseURL() string {
	return "https://so.example.com"
}

func (m *MockTeamsAPI) HasAdminPermission(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamsAPI) FetchDeletionToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockTeamsAPI) BulkDeleteUsers(ctx context.Context, token string, ids []model.AccountID) (*client.BulkDeleteResponse, error) {
	args := m.Called(ctx, token, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.BulkDeleteResponse), args.Error(1)
}

// MockHistoryRepository is a mock implementation of repository.HistoryRepository for testing.
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) CreateHistory(ctx context.Context, history *model.DeletionHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockHistoryRepository) FindHistory(ctx context.Context, filter model.HistoryFilter) ([]*model.DeletionHistory, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DeletionHistory), args.Error(1)
}

func (m *MockHistoryRepository) EnsureHistoryIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockHistoryRepository) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// recordingProgress keeps every batch event.
type recordingProgress struct {
	started  []model.Batch
	finished []model.BatchResult
}

func (p *recordingProgress) BatchStarted(batch model.Batch) {
	p.started = append(p.started, batch)
}

func (p *recordingProgress) BatchFinished(res model.BatchResult) {
	p.finished = append(p.finished, res)
}
