package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "domain error passes through",
			err:        NewForbidden("not yours"),
			wantCode:   "FORBIDDEN",
			wantStatus: http.StatusForbidden,
			wantMsg:    "not yours",
		},
		{
			name:       "wrapped domain error is unwrapped",
			err:        fmt.Errorf("handler: %w", NewNotFound("cv", nil)),
			wantCode:   "NOT_FOUND",
			wantStatus: http.StatusNotFound,
			wantMsg:    "cv not found",
		},
		{
			name:       "conflict reports bad request",
			err:        NewConflict("account already exists", nil),
			wantCode:   "CONFLICT",
			wantStatus: http.StatusBadRequest,
			wantMsg:    "account already exists",
		},
		{
			name:       "fiber not found",
			err:        fiber.ErrNotFound,
			wantCode:   "NOT_FOUND",
			wantStatus: http.StatusNotFound,
			wantMsg:    "Not Found",
		},
		{
			name:       "fiber server error hides message",
			err:        fiber.NewError(http.StatusBadGateway, "upstream exploded"),
			wantCode:   "INTERNAL_ERROR",
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "internal server error",
		},
		{
			name:       "unknown error becomes internal",
			err:        errors.New(`pq: relation "cvs" does not exist`),
			wantCode:   "INTERNAL_ERROR",
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
			assert.Equal(t, tt.wantMsg, got.Message)
		})
	}
}

func TestToDomainError_Nil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestInternalErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error: connection reset", err.Error())
}
