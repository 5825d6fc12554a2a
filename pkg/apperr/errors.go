// Package apperr holds the error taxonomy shared by services and handlers.
//
// Services return the sentinels (wrapped or bare) or a *ValidationError;
// handlers translate them to HTTP statuses with errors.Is / errors.As.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Detailed carries a client-facing message for one of the sentinels.
type Detailed struct {
	Kind   error
	Detail string
	Code   string
}

func (e *Detailed) Error() string { return e.Kind.Error() + ": " + e.Detail }
func (e *Detailed) Unwrap() error { return e.Kind }

// NotFound returns ErrNotFound with a message.
func NotFound(detail string) error { return &Detailed{Kind: ErrNotFound, Detail: detail} }

// Unauthorized returns ErrUnauthorized with a message.
func Unauthorized(detail string) error { return &Detailed{Kind: ErrUnauthorized, Detail: detail} }

// Forbidden returns ErrForbidden with a message.
func Forbidden(detail string) error { return &Detailed{Kind: ErrForbidden, Detail: detail} }

// ValidationError maps field names to messages. The empty field name is
// used for errors that do not belong to a single field.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Add appends a message for field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Has reports whether field already carries an error.
func (e *ValidationError) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

// Err returns e when it holds at least one message, otherwise nil.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Invalid builds a single-field ValidationError.
func Invalid(field, msg string) error {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// AsValidation unwraps err into a *ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
