package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Error(t *testing.T) {
	orderID := uuid.MustParse("a2b1f8e4-7c3d-4e5f-9a0b-1c2d3e4f5a6b")

	testCases := map[string]struct {
		err  *NotFoundError
		want string
	}{
		"should render a uuid lookup": {
			err:  NewNotFound("order", "id", orderID),
			want: "order with id a2b1f8e4-7c3d-4e5f-9a0b-1c2d3e4f5a6b not found",
		},
		"should render a string lookup": {
			err:  NewNotFound("user", "email", "a@example.com"),
			want: "user with email a@example.com not found",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestNotFoundError_ErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("lookup failed: %w", NewNotFound("order", "id", "42"))

	var notFoundErr *NotFoundError
	assert.True(t, errors.As(wrapped, &notFoundErr))
	assert.Equal(t, "order", notFoundErr.Resource)
}
