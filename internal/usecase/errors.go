package usecase

import "errors"

// DomainError carries a machine-readable code the HTTP layer maps to a status.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeRateLimited     = "RATE_LIMITED"
	CodeConflict        = "CONFLICT"
)

func NotFound(msg string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: msg}
}

func InvalidArgument(msg string) *DomainError {
	return &DomainError{Code: CodeInvalidArgument, Message: msg}
}

func Unauthenticated(msg string) *DomainError {
	return &DomainError{Code: CodeUnauthenticated, Message: msg}
}

func RateLimited(msg string) *DomainError {
	return &DomainError{Code: CodeRateLimited, Message: msg}
}

func Conflict(msg string) *DomainError {
	return &DomainError{Code: CodeConflict, Message: msg}
}

func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func IsNotFound(err error) bool    { return CodeOf(err) == CodeNotFound }
func IsRateLimited(err error) bool { return CodeOf(err) == CodeRateLimited }
func IsConflict(err error) bool    { return CodeOf(err) == CodeConflict }
