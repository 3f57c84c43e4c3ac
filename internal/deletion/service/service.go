package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"so4tdelete/internal/deletion/client"
	"so4tdelete/internal/deletion/model"
	"so4tdelete/internal/deletion/repository"
	"so4tdelete/internal/deletion/util"

	"github.com/google/uuid"
)

// TeamsAPI is the part of the Teams site the deletion run needs.
type TeamsAPI interface {
	BaseURL() string
	HasAdminPermission(ctx context.Context) (bool, error)
	FetchDeletionToken(ctx context.Context) (string, error)
	BulkDeleteUsers(ctx context.Context, token string, ids []model.AccountID) (*client.BulkDeleteResponse, error)
}

// Progress receives batch events as they happen.
type Progress interface {
	BatchStarted(batch model.Batch)
	BatchFinished(res model.BatchResult)
}

type DeletionService interface {
	DeleteUsers(ctx context.Context, req model.DeleteUsersReq) (*model.Report, error)
}

type Service struct {
	Client   TeamsAPI
	History  repository.HistoryRepository
	Progress Progress
	Logger   *slog.Logger

	now func() time.Time
}

// NewService wires the deletion engine. history may be nil.
func NewService(c TeamsAPI, history repository.HistoryRepository) *Service {
	return &Service{
		Client:  c,
		History: history,
		Logger:  util.GetLogger(),
		now:     time.Now,
	}
}

// DeleteUsers deletes the accounts in batches of req.ChunkSize, one call at a
// time. The returned report covers every submitted batch; on a fatal batch
// it comes back together with a *FatalServerError.
func (s *Service) DeleteUsers(ctx context.Context, req model.DeleteUsersReq) (*model.Report, error) {
	report := model.NewReport(len(req.AccountIDs))

	if req.ChunkSize <= 0 {
		return report, ErrInvalidChunkSize
	}
	if err := req.Validate(); err != nil {
		return report, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if len(req.AccountIDs) == 0 {
		s.Logger.Info("No account ids to delete")
		return report, nil
	}

	isAdmin, err := s.Client.HasAdminPermission(ctx)
	if err != nil {
		return report, fmt.Errorf("check admin permission: %w", err)
	}
	if !isAdmin {
		s.Logger.Warn("User does not have admin permissions", "base_url", s.Client.BaseURL())
		return report, ErrPermissionDenied
	}

	token := req.Token
	if token == "" {
		token, err = s.Client.FetchDeletionToken(ctx)
		if err != nil {
			return report, fmt.Errorf("fetch deletion token: %w", err)
		}
	}

	report.RunID = uuid.NewString()
	batches := Partition(req.AccountIDs, req.ChunkSize)
	s.Logger.Info("Starting bulk deletion",
		"run_id", report.RunID,
		"accounts", len(req.AccountIDs),
		"batches", len(batches),
		"chunk_size", req.ChunkSize,
	)

	for _, batch := range batches {
		if s.Progress != nil {
			s.Progress.BatchStarted(batch)
		}

		res, err := s.submit(ctx, token, batch)
		report.Fold(res)
		s.record(ctx, report.RunID, res)
		if s.Progress != nil {
			s.Progress.BatchFinished(res)
		}
		if err != nil {
			s.Logger.Error("Bulk deletion halted",
				"run_id", report.RunID,
				"batch", batch.Index+1,
				"status", res.StatusCode,
				"error", err,
			)
			return report, err
		}
	}

	s.Logger.Info("Bulk deletion finished",
		"run_id", report.RunID,
		"elapsed", report.Elapsed,
		"failed", report.FailedCount(),
	)
	return report, nil
}

// submit sends one batch and classifies the answer. The error is non-nil
// exactly when the run must stop.
func (s *Service) submit(ctx context.Context, token string, batch model.Batch) (model.BatchResult, error) {
	start := s.now()
	resp, err := s.Client.BulkDeleteUsers(ctx, token, batch.AccountIDs)
	elapsed := s.now().Sub(start)

	res := model.BatchResult{Batch: batch, Elapsed: elapsed}
	if err != nil {
		res.Outcome = model.OutcomeFatalError
		return res, fmt.Errorf("bulk delete of batch %d: %w", batch.Index+1, err)
	}

	cls := ClassifyResponse(resp.StatusCode, resp.Body)
	res.Outcome = cls.Outcome
	res.StatusCode = resp.StatusCode
	res.FailedAccountIDs = cls.FailedAccountIDs
	res.ErrorMessages = cls.ErrorMessages

	switch cls.Outcome {
	case model.OutcomeSuccess:
		s.Logger.Debug("Batch deleted", "batch", batch.Index+1, "elapsed", elapsed)
	case model.OutcomePartialFailure:
		s.Logger.Warn("Batch partially failed",
			"batch", batch.Index+1,
			"elapsed", elapsed,
			"failed", len(cls.FailedAccountIDs),
		)
	default:
		return res, &FatalServerError{
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
			Batch:      batch,
		}
	}
	return res, nil
}

func (s *Service) record(ctx context.Context, runID string, res model.BatchResult) {
	if s.History == nil {
		return
	}
	entry := model.NewDeletionHistory(runID, s.Client.BaseURL(), res)
	if err := s.History.CreateHistory(context.WithoutCancel(ctx), entry); err != nil {
		s.Logger.Warn("Failed to record deletion history", "run_id", runID, "batch", res.Batch.Index+1, "error", err)
	}
}
