package model

import "time"

// DeletionHistory is the audit record of one submitted batch (append-only).
type DeletionHistory struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	RunID            string    `bson:"run_id" json:"run_id"`
	BaseURL          string    `bson:"base_url" json:"base_url"`
	BatchIndex       int       `bson:"batch_index" json:"batch_index"`
	AccountIDs       []string  `bson:"account_ids" json:"account_ids"`
	Outcome          string    `bson:"outcome" json:"outcome"`
	StatusCode       int       `bson:"status_code" json:"status_code"`
	FailedAccountIDs []string  `bson:"failed_account_ids,omitempty" json:"failed_account_ids,omitempty"`
	ErrorMessages    []string  `bson:"error_messages,omitempty" json:"error_messages,omitempty"`
	ElapsedMillis    int64     `bson:"elapsed_ms" json:"elapsed_ms"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

// HistoryFilter narrows history queries; zero values match everything.
type HistoryFilter struct {
	RunID   string `validate:"omitempty,uuid"`
	BaseURL string `validate:"omitempty,url"`
	Limit   int    `validate:"omitempty,min=1,max=1000"`
}

func (f *HistoryFilter) Validate() error {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	if err := GetValidator().Struct(f); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

// NewDeletionHistory builds the audit record for a batch result.
func NewDeletionHistory(runID, baseURL string, res BatchResult) *DeletionHistory {
	return &DeletionHistory{
		RunID:            runID,
		BaseURL:          baseURL,
		BatchIndex:       res.Batch.Index,
		AccountIDs:       AccountIDStrings(res.Batch.AccountIDs),
		Outcome:          res.Outcome.String(),
		StatusCode:       res.StatusCode,
		FailedAccountIDs: AccountIDStrings(res.FailedAccountIDs),
		ErrorMessages:    res.ErrorMessages,
		ElapsedMillis:    res.Elapsed.Milliseconds(),
		CreatedAt:        time.Now(),
	}
}
