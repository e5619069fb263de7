// Package storage provides the data persistence layer over the embedded
// SQLite store: versioned migrations plus soft-deleting repositories for
// categories, transactions, and preferences.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
	ErrEmptyFields = errors.New("field set cannot be empty")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateFields ensures a caller-supplied field set has at least one entry.
func validateFields(fields Fields) error {
	if len(fields) == 0 {
		return ErrEmptyFields
	}
	return nil
}
