package spec

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes input errors for clearer handling and messaging.
type ErrorCode string

const (
	InputError           ErrorCode = "InputError"
	NetworkError         ErrorCode = "NetworkError"
	ParseError           ErrorCode = "ParseError"
	UnsupportedVersion   ErrorCode = "UnsupportedVersion"
	UnsupportedReference ErrorCode = "UnsupportedReference"
	DanglingReference    ErrorCode = "DanglingReference"
	CyclicReference      ErrorCode = "CyclicReference"
	InvalidStatus        ErrorCode = "InvalidStatus"
	Unsupported          ErrorCode = "Unsupported"
)

// Sentinels matched by errors.Is against a *SpecError of the same code.
var (
	ErrInput                = errors.New("invalid input")
	ErrNetwork              = errors.New("network failure")
	ErrParse                = errors.New("parse failure")
	ErrUnsupportedVersion   = errors.New("unsupported OpenAPI version")
	ErrUnsupportedReference = errors.New("unsupported reference")
	ErrDanglingReference    = errors.New("dangling reference")
	ErrCyclicReference      = errors.New("cyclic reference")
	ErrInvalidStatus        = errors.New("invalid response status")
	ErrUnsupported          = errors.New("unsupported construct")
)

var sentinels = map[ErrorCode]error{
	InputError:           ErrInput,
	NetworkError:         ErrNetwork,
	ParseError:           ErrParse,
	UnsupportedVersion:   ErrUnsupportedVersion,
	UnsupportedReference: ErrUnsupportedReference,
	DanglingReference:    ErrDanglingReference,
	CyclicReference:      ErrCyclicReference,
	InvalidStatus:        ErrInvalidStatus,
	Unsupported:          ErrUnsupported,
}

// SpecError is a structured error with optional location and source pointer.
type SpecError struct {
	Code     ErrorCode
	Message  string
	Location string // file path or URL
	Pointer  string // e.g. "#/paths/~1pets/get/responses"
	Cause    error
}

func (e *SpecError) Error() string {
	if e.Pointer != "" {
		return fmt.Sprintf("%s (at %s)", e.Message, e.Pointer)
	}
	return e.Message
}

func (e *SpecError) Unwrap() error { return e.Cause }

// Is matches the sentinel of the error's code.
func (e *SpecError) Is(target error) bool {
	s, ok := sentinels[e.Code]
	return ok && s == target
}

// Errorf builds a SpecError for a node.
func Errorf(code ErrorCode, pointer string, format string, args ...any) *SpecError {
	return &SpecError{Code: code, Message: fmt.Sprintf(format, args...), Pointer: pointer}
}
