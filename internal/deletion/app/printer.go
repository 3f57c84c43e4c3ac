package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"so4tdelete/internal/deletion/model"
)

// printer writes human readable progress for each batch.
type printer struct {
	out io.Writer
}

func (p *printer) BatchStarted(batch model.Batch) {
	fmt.Fprintf(p.out, "Deleting users: [%s]\n", strings.Join(model.AccountIDStrings(batch.AccountIDs), ", "))
}

func (p *printer) BatchFinished(res model.BatchResult) {
	fmt.Fprintf(p.out, "Server responded in %.2f seconds.\n", res.Elapsed.Seconds())
	switch res.Outcome {
	case model.OutcomeSuccess:
		fmt.Fprintln(p.out, "Successfully deleted users.")
	case model.OutcomePartialFailure:
		fmt.Fprintf(p.out, "Some users could not be deleted (%d account IDs reported).\n", len(res.FailedAccountIDs))
	}
	fmt.Fprintln(p.out)
}

func writeSummary(w io.Writer, report *model.Report) {
	fmt.Fprintf(w, "All user deletion tasks completed in %.2f seconds.\n", report.Elapsed.Seconds())
	if len(report.ErrorMessages) == 0 {
		return
	}
	fmt.Fprintf(w, "%d account IDs failed to be deleted:\n", report.FailedCount())
	for i, msg := range report.ErrorMessages {
		fmt.Fprintf(w, "%d. %s\n", i+1, msg)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeHistory(w io.Writer, records []*model.DeletionHistory) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No deletion history recorded.")
		return
	}
	for _, h := range records {
		fmt.Fprintf(w, "%s  run=%s  batch=%d  %s  status=%d  accounts=%d  failed=%d  %dms\n",
			h.CreatedAt.Format("2006-01-02 15:04:05"),
			h.RunID,
			h.BatchIndex+1,
			h.Outcome,
			h.StatusCode,
			len(h.AccountIDs),
			len(h.FailedAccountIDs),
			h.ElapsedMillis,
		)
		for _, msg := range h.ErrorMessages {
			if msg != "" {
				fmt.Fprintf(w, "    %s\n", msg)
			}
		}
	}
}
