package model

// Outcome classifies the response to one bulk delete call.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomePartialFailure Outcome = "partial_failure"
	OutcomeFatalError     Outcome = "fatal_error"
)

func (o Outcome) String() string {
	return string(o)
}
