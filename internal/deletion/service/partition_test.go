package service

import (
	"strconv"
	"testing"

	"so4tdelete/internal/deletion/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountIDs(n int) []model.AccountID {
	ids := make([]model.AccountID, n)
	for i := range ids {
		ids[i] = model.AccountID(strconv.Itoa(1000 + i))
	}
	return ids
}

func TestPartition(t *testing.T) {
	t.Run("60 ids by 25", func(t *testing.T) {
		batches := Partition(accountIDs(60), 25)
		require.Len(t, batches, 3)
		assert.Len(t, batches[0].AccountIDs, 25)
		assert.Len(t, batches[1].AccountIDs, 25)
		assert.Len(t, batches[2].AccountIDs, 10)
		assert.Equal(t, model.AccountID("1000"), batches[0].AccountIDs[0])
		assert.Equal(t, model.AccountID("1025"), batches[1].AccountIDs[0])
		assert.Equal(t, model.AccountID("1059"), batches[2].AccountIDs[9])
	})

	t.Run("fits in one batch", func(t *testing.T) {
		batches := Partition(accountIDs(7), 25)
		require.Len(t, batches, 1)
		assert.Len(t, batches[0].AccountIDs, 7)
	})

	t.Run("exact multiple", func(t *testing.T) {
		batches := Partition(accountIDs(50), 25)
		require.Len(t, batches, 2)
		assert.Len(t, batches[1].AccountIDs, 25)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Partition(nil, 25))
	})

	t.Run("non positive size", func(t *testing.T) {
		assert.Nil(t, Partition(accountIDs(3), 0))
		assert.Nil(t, Partition(accountIDs(3), -1))
	})
}

func TestPartitionReconstructsInput(t *testing.T) {
	for total := 0; total <= 40; total++ {
		for size := 1; size <= 12; size++ {
			ids := accountIDs(total)
			batches := Partition(ids, size)

			var joined []model.AccountID
			for i, b := range batches {
				assert.Equal(t, i, b.Index)
				assert.LessOrEqual(t, len(b.AccountIDs), size)
				assert.NotEmpty(t, b.AccountIDs)
				joined = append(joined, b.AccountIDs...)
			}
			assert.Equal(t, len(ids), len(joined), "total=%d size=%d", total, size)
			if total > 0 {
				assert.Equal(t, ids, joined, "total=%d size=%d", total, size)
			}
		}
	}
}

func TestPartitionBatchesDoNotAlias(t *testing.T) {
	ids := accountIDs(4)
	batches := Partition(ids, 2)
	batches[0].AccountIDs = append(batches[0].AccountIDs, "9999")
	assert.Equal(t, model.AccountID("1002"), ids[2])
}
