package check_availability

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/availability"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/conflict"
	"github.com/m04kA/SMC-PrepRoomService/pkg/clock"
	"github.com/m04kA/SMC-PrepRoomService/pkg/logger"
)

var now = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func newUseCase(t *testing.T, store *memory.Store) *UseCase {
	t.Helper()
	policy := domain.DefaultSchedulingPolicy()
	finder := availability.NewFinder(conflict.NewDetector(policy.Buffer), policy)
	return NewUseCase(store.Rooms(), store.Reservations(), finder, store.TxManager(), policy,
		clock.NewFixed(now), logger.NewWithWriter(io.Discard, logger.LevelDebug))
}

func seed(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()

	for _, n := range []string{"R1", "R2"} {
		require.NoError(t, store.Rooms().Create(ctx, &domain.Room{
			ID:            domain.RoomKey("fh-1", n),
			FuneralHomeID: "fh-1",
			RoomNumber:    n,
			Capacity:      1,
			Status:        domain.RoomStatusAvailable,
			Versioning:    domain.FirstVersion(now.Add(-time.Hour)),
		}))
		require.NoError(t, store.Reservations().Create(ctx, &domain.Reservation{
			ID:            "busy-" + n,
			RoomID:        domain.RoomKey("fh-1", n),
			FuneralHomeID: "fh-1",
			Status:        domain.StatusConfirmed,
			Priority:      domain.PriorityNormal,
			ReservedFrom:  at(8, 0),
			ReservedTo:    at(14, 30),
			CreatedAt:     now,
			Versioning:    domain.FirstVersion(now),
		}))
	}
}

func TestUseCase_UrgentSlotAfterBuffer(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)

	resp, err := newUseCase(t, store).Execute(context.Background(), &Request{
		FuneralHomeID:   "fh-1",
		DurationMinutes: 120,
		Priority:        string(domain.PriorityUrgent),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 10)
	assert.Equal(t, at(15, 0), resp.Slots[0].Start)
	assert.Equal(t, at(17, 0), resp.Slots[0].End)
	assert.Equal(t, string(domain.PriorityUrgent), resp.Priority)
}

func TestUseCase_EmptyWhenNoRooms(t *testing.T) {
	resp, err := newUseCase(t, memory.NewStore()).Execute(context.Background(), &Request{
		FuneralHomeID:   "fh-unknown",
		DurationMinutes: 120,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestUseCase_Validation(t *testing.T) {
	uc := newUseCase(t, memory.NewStore())

	_, err := uc.Execute(context.Background(), &Request{FuneralHomeID: "fh-1", DurationMinutes: 90})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Execute(context.Background(), &Request{DurationMinutes: 120})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Execute(context.Background(), &Request{FuneralHomeID: "fh-1", DurationMinutes: 120, Priority: "asap"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUseCase_FindSlotsFrom(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)

	slots, err := newUseCase(t, store).FindSlots(context.Background(), "fh-1", 2*time.Hour, domain.PriorityNormal, at(16, 0))
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, at(16, 0), slots[0].Start)
}
