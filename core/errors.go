package core

import (
	"errors"
	"strings"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrInvalidFilename = errors.New("invalid filename")
)

// MissingFieldError reports required request fields that were empty.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return "missing required field(s): " + strings.Join(e.Fields, ", ")
}

// ValidationError reports content that is not well-formed. Line is the
// 1-based input line of the failure, or zero when unknown.
type ValidationError struct {
	Msg  string
	Line int
}

func (e *ValidationError) Error() string { return e.Msg }

// ParseError is returned by Parse on malformed input.
type ParseError struct {
	Msg  string
	Line int
}

func (e *ParseError) Error() string { return e.Msg }
