package model

import "time"

// Report aggregates batch results of one deletion run. It is returned even
// when the run stops early, and then covers only the batches submitted.
type Report struct {
	RunID            string        `json:"run_id,omitempty"`
	Requested        int           `json:"requested"`
	Batches          []BatchResult `json:"batches"`
	Elapsed          time.Duration `json:"elapsed"`
	FailedAccountIDs []AccountID   `json:"failed_account_ids"`
	ErrorMessages    []string      `json:"error_messages"`
}

func NewReport(requested int) *Report {
	return &Report{
		Requested:        requested,
		Batches:          []BatchResult{},
		FailedAccountIDs: []AccountID{},
		ErrorMessages:    []string{},
	}
}

// Fold adds one batch result. Failed ids are kept as reported, duplicates
// included; empty message fragments are dropped.
func (r *Report) Fold(res BatchResult) {
	r.Batches = append(r.Batches, res)
	r.Elapsed += res.Elapsed
	r.FailedAccountIDs = append(r.FailedAccountIDs, res.FailedAccountIDs...)
	for _, msg := range res.ErrorMessages {
		if msg != "" {
			r.ErrorMessages = append(r.ErrorMessages, msg)
		}
	}
}

func (r *Report) FailedCount() int {
	return len(r.FailedAccountIDs)
}

// Submitted counts the account ids sent to the server so far.
func (r *Report) Submitted() int {
	n := 0
	for _, b := range r.Batches {
		n += len(b.Batch.AccountIDs)
	}
	return n
}

// Halted reports whether the run stopped on a fatal batch.
func (r *Report) Halted() bool {
	if len(r.Batches) == 0 {
		return false
	}
	return r.Batches[len(r.Batches)-1].Outcome == OutcomeFatalError
}
