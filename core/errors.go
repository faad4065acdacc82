package core

import (
	"fmt"
	"strconv"
)

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrInvalidArgument missing or malformed input
	ErrInvalidArgument ErrorCode = 100001
	// ErrInvalidFID fid missing or not a positive number
	ErrInvalidFID ErrorCode = 100002

	// ErrUserNotFound no user with the address
	ErrUserNotFound ErrorCode = 100100
	// ErrSignerNotFound no signer record with the address
	ErrSignerNotFound ErrorCode = 100101
	// ErrNoPendingSigner confirm called before any signer request
	ErrNoPendingSigner ErrorCode = 100102
	// ErrSignerNotConfirmed signer exists but hub approval was never recorded
	ErrSignerNotConfirmed ErrorCode = 100103
	// ErrStaleSigner key material changed while the confirmation was in flight
	ErrStaleSigner ErrorCode = 100104

	// ErrHubTimeout approval not observed on the hub within the budget
	ErrHubTimeout ErrorCode = 100200
	// ErrHubUnavailable hub query failed
	ErrHubUnavailable ErrorCode = 100201

	// ErrPersistence store read or write failed
	ErrPersistence ErrorCode = 100300
)

var errorMessages = map[ErrorCode]string{
	ErrUnknown:            "internal error",
	ErrInvalidArgument:    "invalid argument",
	ErrInvalidFID:         "fid is required to confirm the signer",
	ErrUserNotFound:       "user not found",
	ErrSignerNotFound:     "signer not found",
	ErrNoPendingSigner:    "no pending signer for this user",
	ErrSignerNotConfirmed: "signer not linked for this user",
	ErrStaleSigner:        "signer was re-issued during confirmation",
	ErrHubTimeout:         "signer approval not found on hub yet, please retry shortly",
	ErrHubUnavailable:     "unable to verify signer status with hub",
	ErrPersistence:        "failed to access signer store",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

// Message human readable description
func (e ErrorCode) Message() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}

	return errorMessages[ErrUnknown]
}

func (e ErrorCode) Error() string {
	return e.Message()
}

// With wrap the cause with this code, errors.Is matches both
func (e ErrorCode) With(err error) error {
	if err == nil {
		return e
	}

	return &codeError{code: e, err: err}
}

// Withf wrap a formatted detail with this code
func (e ErrorCode) Withf(format string, args ...interface{}) error {
	return &codeError{code: e, err: fmt.Errorf(format, args...)}
}

type codeError struct {
	code ErrorCode
	err  error
}

func (e *codeError) Error() string {
	return e.code.Message() + ": " + e.err.Error()
}

func (e *codeError) Unwrap() error {
	return e.err
}

func (e *codeError) Is(target error) bool {
	code, ok := target.(ErrorCode)
	return ok && code == e.code
}

// Code extract the ErrorCode carried by err, ErrUnknown if none
func Code(err error) ErrorCode {
	switch e := err.(type) {
	case nil:
		return 0
	case ErrorCode:
		return e
	case *codeError:
		return e.code
	}

	if u, ok := err.(interface{ Unwrap() error }); ok {
		if inner := u.Unwrap(); inner != nil {
			return Code(inner)
		}
	}

	return ErrUnknown
}
