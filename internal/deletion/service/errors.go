package service

import (
	"errors"
	"fmt"

	"so4tdelete/internal/deletion/model"
)

var (
	ErrInvalidChunkSize = errors.New("chunk size must be a positive integer")
	ErrPermissionDenied = errors.New("deleting users requires admin permissions")
	ErrBadRequest       = errors.New("bad request")
)

// FatalServerError stops a run: the delete endpoint answered with a status
// that is neither success nor a partial failure.
type FatalServerError struct {
	StatusCode int
	Body       string
	Batch      model.Batch
}

func (e *FatalServerError) Error() string {
	return fmt.Sprintf("bulk delete of batch %d failed with status %d: %s", e.Batch.Index+1, e.StatusCode, e.Body)
}
