package service

import "so4tdelete/internal/deletion/model"

// Partition splits ids into consecutive batches of at most size ids,
// preserving order. size must be positive.
func Partition(ids []model.AccountID, size int) []model.Batch {
	if size <= 0 {
		return nil
	}
	batches := make([]model.Batch, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, model.Batch{
			Index:      len(batches),
			AccountIDs: ids[start:end:end],
		})
	}
	return batches
}
