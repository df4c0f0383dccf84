package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/conflict"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func newRoom(number string, capacity int, status domain.RoomStatus) *domain.Room {
	return &domain.Room{
		ID:            domain.RoomKey("fh-1", number),
		FuneralHomeID: "fh-1",
		RoomNumber:    number,
		Capacity:      capacity,
		Status:        status,
	}
}

func busy(room *domain.Room, id string, from, to time.Time) *domain.Reservation {
	return &domain.Reservation{
		ID:           id,
		RoomID:       room.ID,
		Status:       domain.StatusConfirmed,
		Priority:     domain.PriorityNormal,
		ReservedFrom: from,
		ReservedTo:   to,
	}
}

func newFinder() *Finder {
	policy := domain.DefaultSchedulingPolicy()
	return NewFinder(conflict.NewDetector(policy.Buffer), policy)
}

func TestFinder_AllRoomsBookedUntilAfternoon(t *testing.T) {
	r1 := newRoom("R1", 1, domain.RoomStatusAvailable)
	r2 := newRoom("R2", 1, domain.RoomStatusAvailable)

	now := at(8, 0)
	reservations := []*domain.Reservation{
		busy(r1, "a", at(8, 0), at(14, 30)),
		busy(r2, "b", at(8, 0), at(14, 30)),
	}

	slots := newFinder().Find(Query{
		Rooms:        []*domain.Room{r1, r2},
		Reservations: reservations,
		Duration:     2 * time.Hour,
		Priority:     domain.PriorityUrgent,
		Now:          now,
	})

	require.Len(t, slots, 10)
	assert.Equal(t, at(15, 0), slots[0].Start, "first slot starts right after buffer")
	assert.Equal(t, at(17, 0), slots[0].End)
	assert.Equal(t, "R1", slots[0].RoomNumber)
	assert.Equal(t, at(15, 0), slots[1].Start)
	assert.Equal(t, "R2", slots[1].RoomNumber)

	for i := 1; i < len(slots); i++ {
		assert.False(t, slots[i].Start.Before(slots[i-1].Start), "slots sorted by start")
	}
}

func TestFinder_SkipsUnavailableRooms(t *testing.T) {
	rooms := []*domain.Room{
		newRoom("R1", 1, domain.RoomStatusMaintenance),
		newRoom("R2", 1, domain.RoomStatusClosed),
	}

	slots := newFinder().Find(Query{Rooms: rooms, Duration: 2 * time.Hour, Now: at(8, 0)})
	assert.Empty(t, slots)
}

func TestFinder_ReturnsEmptyWhenNothingFitsWithinHorizon(t *testing.T) {
	r1 := newRoom("R1", 1, domain.RoomStatusAvailable)
	reservations := []*domain.Reservation{
		busy(r1, "a", at(0, 0), at(0, 0).Add(20*24*time.Hour)),
	}

	slots := newFinder().Find(Query{
		Rooms:        []*domain.Room{r1},
		Reservations: reservations,
		Duration:     2 * time.Hour,
		Now:          at(8, 0),
	})
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestFinder_AlignsToStepAndRespectsSearchWindow(t *testing.T) {
	r1 := newRoom("R1", 1, domain.RoomStatusAvailable)
	from := at(9, 7)
	to := at(12, 0)

	slots := newFinder().Find(Query{
		Rooms:      []*domain.Room{r1},
		Duration:   2 * time.Hour,
		Now:        at(8, 0),
		SearchFrom: &from,
		SearchTo:   &to,
	})

	require.Len(t, slots, 4) // 9:15, 9:30, 9:45, 10:00
	assert.Equal(t, at(9, 15), slots[0].Start)
	assert.Equal(t, at(10, 0), slots[3].Start)
}

func TestFinder_LimitAndExclude(t *testing.T) {
	r1 := newRoom("R1", 1, domain.RoomStatusAvailable)
	r2 := newRoom("R2", 2, domain.RoomStatusAvailable)

	slots := newFinder().Find(Query{
		Rooms:         []*domain.Room{r1, r2},
		Duration:      2 * time.Hour,
		Now:           at(8, 0),
		Limit:         3,
		ExcludeRoomID: r1.ID,
	})

	require.Len(t, slots, 3)
	for _, s := range slots {
		assert.Equal(t, r2.ID, s.RoomID)
	}
}

func TestFinder_UrgentPrefersNearTermSlots(t *testing.T) {
	r1 := newRoom("R1", 1, domain.RoomStatusAvailable)
	now := at(8, 0)
	from := at(7, 0) // окно поиска не раньше текущего времени

	slots := newFinder().Find(Query{
		Rooms:      []*domain.Room{r1},
		Duration:   2 * time.Hour,
		Priority:   domain.PriorityUrgent,
		Now:        now,
		SearchFrom: &from,
	})

	require.NotEmpty(t, slots)
	assert.Equal(t, now, slots[0].Start)
	assert.True(t, slots[0].Start.Before(now.Add(2*time.Hour)))
}
