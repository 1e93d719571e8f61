package reporterr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by how the run reacts to it.
type Kind string

const (
	// ConfigurationError means a site cannot be processed: missing credentials or no servers.
	ConfigurationError Kind = "ConfigurationError"
	// FetchError means the metrics API could not be queried for one server.
	FetchError Kind = "FetchError"
	// DataSufficiency marks a soft, absent result such as an empty series.
	DataSufficiency Kind = "DataSufficiency"
	// RenderError means an artifact could not be produced; a placeholder is used instead.
	RenderError Kind = "RenderError"
)

// Error is a typed report error. Err is optional.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Newf(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether any error in err's chain is a report error of the given kind.
func IsKind(err error, kind Kind) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind == kind
	}
	return false
}
