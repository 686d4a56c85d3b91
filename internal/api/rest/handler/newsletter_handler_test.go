package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockNewsletterRepository struct {
	mock.Mock
}

func (m *mockNewsletterRepository) Subscribe(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func TestNewsletterHandler_Subscribe(t *testing.T) {
	testCases := map[string]struct {
		body           string
		setupMock      func(*mockNewsletterRepository)
		expectedStatus int
	}{
		"should subscribe a valid address": {
			body: `{"email":"reader@example.com"}`,
			setupMock: func(repo *mockNewsletterRepository) {
				repo.On("Subscribe", mock.Anything, "reader@example.com").Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		"should normalize case and whitespace": {
			body: `{"email":"  Reader@Example.COM "}`,
			setupMock: func(repo *mockNewsletterRepository) {
				repo.On("Subscribe", mock.Anything, "reader@example.com").Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		"should reject a missing email": {
			body:           `{}`,
			setupMock:      func(_ *mockNewsletterRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		"should reject an address without an at sign": {
			body:           `{"email":"not-an-email"}`,
			setupMock:      func(_ *mockNewsletterRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		"should reject a malformed body": {
			body:           `{"email":`,
			setupMock:      func(_ *mockNewsletterRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		"should report internal error on store failure": {
			body: `{"email":"reader@example.com"}`,
			setupMock: func(repo *mockNewsletterRepository) {
				repo.On("Subscribe", mock.Anything, "reader@example.com").Return(errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			repo := &mockNewsletterRepository{}
			tc.setupMock(repo)
			h := NewNewsletterHandler(repo, testLogger())

			req := httptest.NewRequest(http.MethodPost, "/newsletter/subscribe", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()

			h.Subscribe(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			repo.AssertExpectations(t)
		})
	}
}
