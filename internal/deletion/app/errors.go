package app

import (
	"errors"
	"fmt"
	"io/fs"

	"so4tdelete/internal/deletion/model"
	"so4tdelete/internal/deletion/service"
	"so4tdelete/internal/deletion/session"
	"so4tdelete/internal/deletion/source"
)

// Exit codes
const (
	ExitFailure      = 1
	ExitInvalidInput = 2
)

// ExitError is an error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// toExitError maps run errors to process exit codes.
func toExitError(err error) *ExitError {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	var (
		detail *model.ErrorDetail
		rowErr *source.RowError
		fatal  *service.FatalServerError
	)
	switch {
	case errors.Is(err, service.ErrInvalidChunkSize),
		errors.Is(err, service.ErrBadRequest),
		errors.Is(err, source.ErrMissingColumn),
		errors.Is(err, fs.ErrNotExist),
		errors.As(err, &rowErr),
		errors.As(err, &detail):
		return &ExitError{Code: ExitInvalidInput, Message: err.Error(), Err: err}
	case errors.Is(err, service.ErrPermissionDenied):
		return &ExitError{Code: ExitFailure, Message: "Not able to delete users. This requires admin permissions.", Err: err}
	case errors.Is(err, session.ErrAuthentication):
		return &ExitError{Code: ExitFailure, Message: err.Error(), Err: err}
	case errors.As(err, &fatal):
		return &ExitError{
			Code: ExitFailure,
			Message: fmt.Sprintf("Error deleting users: %v\nResponse code: %d\nResponse text: %s\nExiting script.",
				model.AccountIDStrings(fatal.Batch.AccountIDs), fatal.StatusCode, fatal.Body),
			Err: err,
		}
	default:
		return &ExitError{Code: ExitFailure, Message: err.Error(), Err: err}
	}
}
