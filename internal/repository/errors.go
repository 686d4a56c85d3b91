package repository

import (
	"fmt"
)

// NotFoundError reports a lookup that matched no row. Value keeps the
// caller's type (uuid.UUID, string) and is rendered with %v.
type NotFoundError struct {
	Resource string
	Key      string
	Value    any
}

// NewNotFound builds a NotFoundError for the given resource lookup.
func NewNotFound(resource, key string, value any) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key, Value: value}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with %s %v not found", e.Resource, e.Key, e.Value)
}
