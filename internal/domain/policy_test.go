package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulingPolicy_ValidateDuration(t *testing.T) {
	p := DefaultSchedulingPolicy()

	testCases := []struct {
		name    string
		minutes int
		wantErr bool
	}{
		{"below minimum", 119, true},
		{"minimum", 120, false},
		{"maximum", 480, false},
		{"above maximum", 481, true},
		{"zero", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := p.ValidateDuration(time.Duration(tc.minutes) * time.Minute)
			if tc.wantErr {
				assert.True(t, errors.Is(err, ErrValidation))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSchedulingPolicy_ValidateWindow_Inverted(t *testing.T) {
	p := DefaultSchedulingPolicy()
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	err := p.ValidateWindow(NewTimeWindow(start, start.Add(-3*time.Hour)))
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestAutoReleasePolicy_IsExpired(t *testing.T) {
	r := newTestReservation(StatusPending) // создано в 09:00, начало в 10:00

	byCreation := DefaultAutoReleasePolicy()
	assert.False(t, byCreation.IsExpired(r, r.CreatedAt.Add(30*time.Minute)))
	assert.True(t, byCreation.IsExpired(r, r.CreatedAt.Add(31*time.Minute)))

	byStart := AutoReleasePolicy{GracePeriod: 30 * time.Minute, Anchor: GraceFromScheduledStart}
	assert.False(t, byStart.IsExpired(r, r.CreatedAt.Add(31*time.Minute)))
	assert.True(t, byStart.IsExpired(r, r.ReservedFrom.Add(31*time.Minute)))

	checkedIn := r.CreatedAt.Add(5 * time.Minute)
	r.CheckedInAt = &checkedIn
	assert.False(t, byCreation.IsExpired(r, r.CreatedAt.Add(2*time.Hour)))
}
