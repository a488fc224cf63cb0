// Package apperr defines the classified errors returned by the service layer.
// The kind is what ends up in the error breakdown of /stats.
package apperr

import (
	"errors"
	"fmt"
)

const (
	KindValidation = "VALIDATION_ERROR"
	KindConfig     = "CONFIG_ERROR"
	KindPDF        = "PDF_ERROR"
	KindBlob       = "BLOB_ERROR"
)

// Error is a classified failure. Message is what gets recorded and logged;
// Public, when set, is what the client is told instead.
type Error struct {
	Kind    string
	Message string
	Public  string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) PublicMessage() string {
	if e.Public != "" {
		return e.Public
	}
	return e.Error()
}

// WithPublic sets the client-facing message and returns e.
func (e *Error) WithPublic(message string) *Error {
	e.Public = message
	return e
}

// ErrorKind is read by the instrumentation layer through errors.As.
func (e *Error) ErrorKind() string { return e.Kind }

func New(kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err. The message keeps the cause's text.
func Wrap(kind string, err error) *Error {
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}

func Validation(message string) *Error { return New(KindValidation, message) }

// KindOf returns the kind of the first *Error in the chain, or "".
func KindOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
