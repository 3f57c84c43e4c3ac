package model

import "strings"

// AccountID identifies one network account targeted for deletion.
// It is not a site user id; the two id spaces are unrelated.
type AccountID string

func (id AccountID) String() string {
	return string(id)
}

// ParseAccountID trims the raw value and checks it is a digit string.
func ParseAccountID(raw string) (AccountID, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", &ErrorDetail{Code: "bad_request", Message: "account id is empty"}
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return "", &ErrorDetail{Code: "bad_request", Message: "account id must be numeric: " + v}
		}
	}
	return AccountID(v), nil
}

// AccountIDStrings converts ids for form encoding and storage.
func AccountIDStrings(ids []AccountID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// ErrorResponse for consistent error output
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorDetail) Error() string {
	return e.Code + ": " + e.Message
}
