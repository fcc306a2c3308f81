package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"rentaride-backend/internal/domain"
)

func TestWriteError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"Validation", &domain.ValidationError{Field: "end_date", Reason: "must be after start date"}, http.StatusBadRequest, "VALIDATION"},
		{"Conflict", &domain.ConflictError{Reason: "overlapping confirmed booking"}, http.StatusConflict, "CONFLICT"},
		{"State", &domain.StateError{Current: domain.BookingStatusCompleted, Required: "cannot cancel"}, http.StatusUnprocessableEntity, "STATE"},
		{"Authorization", &domain.AuthorizationError{Reason: "not a party"}, http.StatusForbidden, "AUTHORIZATION"},
		{"NotFound", &domain.NotFoundError{Entity: "booking", ID: 404}, http.StatusNotFound, "NOT_FOUND"},
		{"Infrastructure", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			var body errorResponse
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.wantCode, body.Code)
		})
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: password authentication failed"))

	var body errorResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotContains(t, body.Error, "password")
}
