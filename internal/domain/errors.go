package domain

import "fmt"

type ValidationCode string

const (
	ErrCodeAnswerRequired   ValidationCode = "ANSWER_REQUIRED"
	ErrCodeInvalidAnswer    ValidationCode = "INVALID_ANSWER"
	ErrCodeNotQuizCard      ValidationCode = "NOT_QUIZ_CARD"
	ErrCodeProofRequired    ValidationCode = "PROOF_REQUIRED"
	ErrCodeEmptyMission     ValidationCode = "EMPTY_MISSION"
	ErrCodeAlreadyOnboarded ValidationCode = "ALREADY_ONBOARDED"
	ErrCodeNotOnboarded     ValidationCode = "NOT_ONBOARDED"
	ErrCodeInvalidProfile   ValidationCode = "INVALID_PROFILE"
	ErrCodeMissionInactive  ValidationCode = "MISSION_INACTIVE"
)

// ValidationError is a user-facing rejection of an operation. State is left
// unchanged when one is returned.
type ValidationError struct {
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Is matches any ValidationError with the same code, so callers can write
// errors.Is(err, &ValidationError{Code: ErrCodeAnswerRequired}).
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

func newValidationError(code ValidationCode, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrAnswerRequired is returned when advancing past an unanswered quiz card.
var ErrAnswerRequired = &ValidationError{Code: ErrCodeAnswerRequired, Message: "answer required"}
