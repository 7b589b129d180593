package service

// Auth flow outcomes recorded by AuthMetrics.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// AuthMetrics counts authentication flow outcomes.
type AuthMetrics interface {
	RecordAuthAttempt(operation, outcome string)
}
