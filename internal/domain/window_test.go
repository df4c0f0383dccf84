package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestTimeWindow_Overlaps(t *testing.T) {
	base := NewTimeWindow(at(10, 0), at(12, 0))

	assert.True(t, base.Overlaps(NewTimeWindow(at(11, 0), at(13, 0))))
	assert.True(t, base.Overlaps(NewTimeWindow(at(9, 0), at(10, 1))))
	assert.False(t, base.Overlaps(NewTimeWindow(at(12, 0), at(14, 0))), "touching windows do not overlap")
	assert.False(t, base.Overlaps(NewTimeWindow(at(8, 0), at(10, 0))))
}

func TestTimeWindow_OverlapDuration(t *testing.T) {
	base := NewTimeWindow(at(10, 0), at(12, 0))

	assert.Equal(t, time.Hour, base.OverlapDuration(NewTimeWindow(at(11, 0), at(13, 0))))
	assert.Equal(t, time.Duration(0), base.OverlapDuration(NewTimeWindow(at(13, 0), at(14, 0))))
	assert.Equal(t, 2*time.Hour, base.OverlapDuration(NewTimeWindow(at(0, 0), at(23, 0))))
}

func TestVersioning_ValidAt(t *testing.T) {
	closed := at(12, 0)
	v := Versioning{Version: 1, ValidFrom: at(10, 0), ValidTo: &closed}

	assert.False(t, v.ValidAt(at(9, 59)))
	assert.True(t, v.ValidAt(at(10, 0)))
	assert.True(t, v.ValidAt(at(11, 59)))
	assert.False(t, v.ValidAt(at(12, 0)))

	current := FirstVersion(at(12, 0))
	assert.True(t, current.ValidAt(at(23, 0)))
}

func TestReservationFilter_Matches(t *testing.T) {
	r := newTestReservation(StatusPending) // 10:00-12:00

	from, to := at(11, 0), at(13, 0)
	assert.True(t, ReservationFilter{From: &from, To: &to}.Matches(r))

	from = at(12, 0)
	assert.False(t, ReservationFilter{From: &from}.Matches(r))

	assert.True(t, ReservationFilter{Statuses: ActiveStatuses}.Matches(r))
	assert.False(t, ReservationFilter{Statuses: TerminalStatuses}.Matches(r))

	before := r.CreatedAt
	assert.False(t, ReservationFilter{CreatedBefore: &before}.Matches(r))

	fh := "other"
	r.FuneralHomeID = "fh-1"
	assert.False(t, ReservationFilter{FuneralHomeID: &fh}.Matches(r))
}

func TestConflictError_Unwrap(t *testing.T) {
	err := error(&ConflictError{
		RoomID: "fh-1:R1",
		Window: NewTimeWindow(at(12, 15), at(14, 0)),
		Collisions: []Collision{
			{ReservationID: "res-1"},
		},
	})

	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "res-1")
}
