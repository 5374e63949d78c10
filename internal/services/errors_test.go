package services

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{CodedError(ErrInvalidInput, "bad"), http.StatusBadRequest},
		{CodedError(ErrDuplicateEmail, "dup"), http.StatusBadRequest},
		{CodedError(ErrInvalidCredentials, "nope"), http.StatusUnauthorized},
		{CodedError(ErrUnauthenticated, "who"), http.StatusUnauthorized},
		{CodedError(ErrNotFound, "gone"), http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", CodedError(ErrNotFound, "gone")), http.StatusNotFound},
		{errors.New("database is down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestMessageHidesInternalErrors(t *testing.T) {
	assert.Equal(t, "Collection not found", Message(CodedError(ErrNotFound, "Collection not found")))
	assert.Equal(t, "Internal server error", Message(errors.New("pq: connection refused")))
}

func TestCodedErrorMatchesKind(t *testing.T) {
	err := invalidInput("scheduledDate %q is not a valid date", "x")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, `scheduledDate "x" is not a valid date`, err.Error())
}
