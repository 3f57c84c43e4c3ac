package service

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"so4tdelete/internal/deletion/model"
)

var digitRun = regexp.MustCompile(`\d+`)

// partialFailureBody is the JSON the site answers with on status 500.
type partialFailureBody struct {
	ErrorMessage *string `json:"ErrorMessage"`
}

// Classification is the parsed form of one bulk delete response.
type Classification struct {
	Outcome          model.Outcome
	FailedAccountIDs []model.AccountID
	ErrorMessages    []string
}

// ClassifyResponse maps a bulk delete response to an outcome. A 500 without
// a readable ErrorMessage is fatal since the failed accounts are unknown.
func ClassifyResponse(status int, body []byte) Classification {
	switch status {
	case http.StatusOK:
		return Classification{Outcome: model.OutcomeSuccess}
	case http.StatusInternalServerError:
		var payload partialFailureBody
		if err := json.Unmarshal(body, &payload); err != nil || payload.ErrorMessage == nil {
			return Classification{Outcome: model.OutcomeFatalError}
		}
		return Classification{
			Outcome:          model.OutcomePartialFailure,
			FailedAccountIDs: ExtractAccountIDs(*payload.ErrorMessage),
			ErrorMessages:    SplitErrorMessage(*payload.ErrorMessage),
		}
	default:
		return Classification{Outcome: model.OutcomeFatalError}
	}
}

// ExtractAccountIDs returns every digit run of the message, in order and
// with duplicates. This is a loose heuristic: numbers in unrelated prose are
// reported as failed accounts too.
func ExtractAccountIDs(message string) []model.AccountID {
	runs := digitRun.FindAllString(message, -1)
	ids := make([]model.AccountID, len(runs))
	for i, r := range runs {
		ids[i] = model.AccountID(r)
	}
	return ids
}

// SplitErrorMessage splits the message into its CRLF separated lines and
// drops the leading preamble ("There were some issues:"). The first line is
// only a preamble when it names no account, i.e. carries no digit run.
func SplitErrorMessage(message string) []string {
	lines := strings.Split(message, "\r\n")
	if len(lines) > 0 && !digitRun.MatchString(lines[0]) {
		lines = lines[1:]
	}
	return lines
}
