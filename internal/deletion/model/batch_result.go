package model

import "time"

// Batch is one ordered slice of the requested account ids, submitted in a single call.
type Batch struct {
	Index      int         `json:"index"`
	AccountIDs []AccountID `json:"account_ids"`
}

// BatchResult represents the classified outcome of one bulk delete call
type BatchResult struct {
	Batch            Batch         `json:"batch"`
	Outcome          Outcome       `json:"outcome"`
	StatusCode       int           `json:"status_code"`
	Elapsed          time.Duration `json:"elapsed"`
	FailedAccountIDs []AccountID   `json:"failed_account_ids,omitempty"`
	ErrorMessages    []string      `json:"error_messages,omitempty"`
}
