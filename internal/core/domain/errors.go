package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a fetch failure. There are exactly four terminal
// failure states; none of them is retried.
type ErrorCode string

const (
	CodeNetwork        ErrorCode = "network"
	CodeAuthentication ErrorCode = "authentication"
	CodeFilesystem     ErrorCode = "filesystem"
	CodeVerification   ErrorCode = "verification"
)

// FetchError is the typed failure returned by a report fetch. It keeps
// the failing operation and the underlying cause so callers can both
// classify the failure and log the detail.
type FetchError struct {
	Code ErrorCode
	Op   string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Code, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func NewNetworkError(op string, err error) *FetchError {
	return &FetchError{Code: CodeNetwork, Op: op, Err: err}
}

func NewAuthenticationError(op string, err error) *FetchError {
	return &FetchError{Code: CodeAuthentication, Op: op, Err: err}
}

func NewFilesystemError(op string, err error) *FetchError {
	return &FetchError{Code: CodeFilesystem, Op: op, Err: err}
}

func NewVerificationError(op string, err error) *FetchError {
	return &FetchError{Code: CodeVerification, Op: op, Err: err}
}

func hasCode(err error, code ErrorCode) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Code == code
}

func IsNetwork(err error) bool        { return hasCode(err, CodeNetwork) }
func IsAuthentication(err error) bool { return hasCode(err, CodeAuthentication) }
func IsFilesystem(err error) bool     { return hasCode(err, CodeFilesystem) }
func IsVerification(err error) bool   { return hasCode(err, CodeVerification) }
