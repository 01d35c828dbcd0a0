package linetv

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by Client matches exactly one of them
// under errors.Is.
var (
	ErrInvalidURL      = errors.New("invalid url")
	ErrConnection      = errors.New("connection error")
	ErrInvalidResponse = errors.New("invalid response")
	ErrInvalidData     = errors.New("invalid data")
	ErrDecode          = errors.New("decode error")
)

var kinds = []error{ErrInvalidURL, ErrConnection, ErrInvalidResponse, ErrInvalidData, ErrDecode}

// Error describes a failed request.
type Error struct {
	Kind   error
	Path   string
	Status int // zero unless a response was received
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("get %s: %v", e.Path, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the failure kind of err, or nil when err did not come from
// this package.
func KindOf(err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

func newError(kind error, path string, status int, err error) *Error {
	return &Error{Kind: kind, Path: path, Status: status, Err: err}
}
