package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"so4tdelete/internal/deletion/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRepo(t *testing.T) *SQLiteHistoryRepository {
	t.Helper()
	repo, err := OpenSQLiteHistoryRepository(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close(context.Background()) })
	require.NoError(t, repo.EnsureHistoryIndexes(context.Background()))
	return repo
}

func TestSQLiteHistoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	runA := uuid.NewString()
	runB := uuid.NewString()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []*model.DeletionHistory{
		{RunID: runA, BaseURL: "https://a.example.com", BatchIndex: 0, AccountIDs: []string{"1", "2"}, Outcome: "success", StatusCode: 200, ElapsedMillis: 900, CreatedAt: base},
		{RunID: runA, BaseURL: "https://a.example.com", BatchIndex: 1, AccountIDs: []string{"3"}, Outcome: "partial_failure", StatusCode: 500,
			FailedAccountIDs: []string{"3"}, ErrorMessages: []string{"ERROR (AccountId: 3): nope"}, ElapsedMillis: 1200, CreatedAt: base.Add(time.Second)},
		{RunID: runB, BaseURL: "https://b.example.com", BatchIndex: 0, AccountIDs: []string{"9"}, Outcome: "fatal_error", StatusCode: 403, CreatedAt: base.Add(time.Minute)},
	}
	for _, r := range records {
		require.NoError(t, repo.CreateHistory(ctx, r))
		assert.NotEmpty(t, r.ID)
	}

	t.Run("newest first", func(t *testing.T) {
		all, err := repo.FindHistory(ctx, model.HistoryFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, runB, all[0].RunID)
		assert.Equal(t, 1, all[1].BatchIndex)
		assert.Equal(t, base.Add(time.Minute), all[0].CreatedAt)
	})

	t.Run("filter by run", func(t *testing.T) {
		found, err := repo.FindHistory(ctx, model.HistoryFilter{RunID: runA})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, []string{"3"}, found[0].FailedAccountIDs)
		assert.Equal(t, []string{"ERROR (AccountId: 3): nope"}, found[0].ErrorMessages)
		assert.Nil(t, found[1].FailedAccountIDs)
		assert.Equal(t, []string{"1", "2"}, found[1].AccountIDs)
	})

	t.Run("filter by site and limit", func(t *testing.T) {
		found, err := repo.FindHistory(ctx, model.HistoryFilter{BaseURL: "https://a.example.com", Limit: 1})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, 1, found[0].BatchIndex)
	})

	t.Run("invalid filter", func(t *testing.T) {
		_, err := repo.FindHistory(ctx, model.HistoryFilter{RunID: "nope"})
		assert.Error(t, err)
	})
}

func TestOpenSQLiteHistoryRepositoryRequiresPath(t *testing.T) {
	_, err := OpenSQLiteHistoryRepository("  ")
	assert.Error(t, err)
}
