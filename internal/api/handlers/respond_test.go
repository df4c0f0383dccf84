package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

func TestRespondDomainError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: bad duration", domain.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: room", domain.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: not yours", domain.ErrPermissionDenied), http.StatusForbidden},
		{fmt.Errorf("%w: completed", domain.ErrInvalidTransition), http.StatusConflict},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		require.True(t, RespondDomainError(w, tc.err))
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
	}

	w := httptest.NewRecorder()
	assert.False(t, RespondDomainError(w, errors.New("db down")))
}

func TestRespondDomainError_ConflictBody(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	conflict := &domain.ConflictError{
		RoomID: "fh-1:R1",
		Window: domain.NewTimeWindow(start, start.Add(2*time.Hour)),
		Collisions: []domain.Collision{{
			ReservationID: "res-1",
			RoomID:        "fh-1:R1",
			Status:        domain.StatusConfirmed,
			Priority:      domain.PriorityNormal,
			ReservedFrom:  start.Add(-2 * time.Hour),
			ReservedTo:    start,
		}},
		Suggestions: []domain.Slot{{RoomID: "fh-1:R2", RoomNumber: "R2", Start: start, End: start.Add(2 * time.Hour)}},
	}

	w := httptest.NewRecorder()
	require.True(t, RespondDomainError(w, fmt.Errorf("reserve: %w", conflict)))
	assert.Equal(t, http.StatusConflict, w.Code)

	var body ConflictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Collisions, 1)
	assert.Equal(t, "res-1", body.Collisions[0].ReservationID)
	require.Len(t, body.Suggestions, 1)
	assert.Equal(t, "R2", body.Suggestions[0].RoomNumber)
}
