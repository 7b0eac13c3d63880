package codemodel

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes code model errors.
type ErrorKind string

const (
	ItemAlreadyPresent   ErrorKind = "ItemAlreadyPresent"
	DuplicateFieldName   ErrorKind = "DuplicateFieldName"
	DuplicateVariantName ErrorKind = "DuplicateVariantName"
	AttrPathInvalid      ErrorKind = "AttrPathInvalid"
	InvalidIdentifier    ErrorKind = "InvalidIdentifier"
)

var (
	ErrItemAlreadyPresent   = errors.New("item already present")
	ErrDuplicateFieldName   = errors.New("duplicate field name")
	ErrDuplicateVariantName = errors.New("duplicate variant name")
	ErrAttrPathInvalid      = errors.New("invalid attribute path")
	ErrInvalidIdentifier    = errors.New("invalid identifier")
)

var sentinels = map[ErrorKind]error{
	ItemAlreadyPresent:   ErrItemAlreadyPresent,
	DuplicateFieldName:   ErrDuplicateFieldName,
	DuplicateVariantName: ErrDuplicateVariantName,
	AttrPathInvalid:      ErrAttrPathInvalid,
	InvalidIdentifier:    ErrInvalidIdentifier,
}

// CodeError reports a rejected mutation of the code model.
type CodeError struct {
	Kind  ErrorKind
	Name  string // offending item, field, variant or path
	Cause error
}

func (e *CodeError) Error() string {
	msg := fmt.Sprintf("%s: %q", sentinels[e.Kind], e.Name)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *CodeError) Unwrap() error { return e.Cause }

func (e *CodeError) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

func codeErr(kind ErrorKind, name string) *CodeError {
	return &CodeError{Kind: kind, Name: name}
}
