package override_conflict

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/conflict"
	"github.com/m04kA/SMC-PrepRoomService/pkg/clock"
	"github.com/m04kA/SMC-PrepRoomService/pkg/logger"
)

var now = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

type overrideMetrics struct {
	overrides int
}

func (m *overrideMetrics) RecordReservationCreated(priority string, override bool) {
	if override && priority == string(domain.PriorityUrgent) {
		m.overrides++
	}
}

func setup(t *testing.T, status domain.RoomStatus) (*memory.Store, *UseCase, *overrideMetrics) {
	t.Helper()

	store := memory.NewStore()
	require.NoError(t, store.Rooms().Create(context.Background(), &domain.Room{
		ID:            "fh-1:R1",
		FuneralHomeID: "fh-1",
		RoomNumber:    "R1",
		Capacity:      1,
		Status:        status,
		Versioning:    domain.FirstVersion(now.Add(-time.Hour)),
	}))

	policy := domain.DefaultSchedulingPolicy()
	m := &overrideMetrics{}
	uc := NewUseCase(store.Rooms(), store.Reservations(), conflict.NewDetector(policy.Buffer),
		store.TxManager(), policy, clock.NewFixed(now), m, logger.NewWithWriter(io.Discard, logger.LevelDebug))
	return store, uc, m
}

func seedBooked(t *testing.T, store *memory.Store) {
	t.Helper()
	require.NoError(t, store.Reservations().Create(context.Background(), &domain.Reservation{
		ID:            "existing",
		RoomID:        "fh-1:R1",
		FuneralHomeID: "fh-1",
		CaseID:        "case-1",
		EmbalmerID:    "emb-a",
		Status:        domain.StatusConfirmed,
		Priority:      domain.PriorityNormal,
		ReservedFrom:  at(9, 0),
		ReservedTo:    at(17, 0),
		CreatedAt:     now,
		Versioning:    domain.FirstVersion(now),
	}))
}

func validRequest() *Request {
	return &Request{
		RoomID:        "fh-1:R1",
		CaseID:        "case-urgent",
		EmbalmerID:    "emb-b",
		FamilyID:      "fam-2",
		ReservedFrom:  at(10, 0),
		ReservedTo:    at(13, 0),
		ApproverID:    "mgr-1",
		Justification: "viewing scheduled tomorrow morning",
	}
}

func TestUseCase_OverridesFullyBookedRoom(t *testing.T) {
	store, uc, m := setup(t, domain.RoomStatusAvailable)
	seedBooked(t, store)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, string(domain.PriorityUrgent), resp.Priority)
	assert.Equal(t, "mgr-1", resp.ApprovedBy)
	assert.Contains(t, resp.Notes, "mgr-1")
	assert.Contains(t, resp.Notes, "viewing scheduled tomorrow morning")
	assert.Equal(t, []string{"existing"}, resp.OverriddenReservationIDs)
	assert.Equal(t, 1, m.overrides)

	stored, err := store.Reservations().GetCurrent(context.Background(), resp.ReservationID)
	require.NoError(t, err)
	require.NotNil(t, stored.ApprovedBy)
	assert.True(t, stored.IsOverride())
	assert.Equal(t, domain.PriorityUrgent, stored.Priority)
}

func TestUseCase_WithoutConflict(t *testing.T) {
	_, uc, _ := setup(t, domain.RoomStatusAvailable)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Empty(t, resp.OverriddenReservationIDs)
	assert.Contains(t, resp.Notes, "overridden=none")
}

func TestUseCase_Validation(t *testing.T) {
	_, uc, _ := setup(t, domain.RoomStatusAvailable)

	noApprover := validRequest()
	noApprover.ApproverID = " "
	_, err := uc.Execute(context.Background(), noApprover)
	assert.ErrorIs(t, err, ErrMissingApprover)
	assert.ErrorIs(t, err, domain.ErrValidation)

	noJustification := validRequest()
	noJustification.Justification = ""
	_, err = uc.Execute(context.Background(), noJustification)
	assert.ErrorIs(t, err, ErrMissingJustification)

	tooLong := validRequest()
	tooLong.ReservedTo = tooLong.ReservedFrom.Add(481 * time.Minute)
	_, err = uc.Execute(context.Background(), tooLong)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUseCase_RejectsSelfApproval(t *testing.T) {
	store, uc, _ := setup(t, domain.RoomStatusAvailable)
	seedBooked(t, store)

	req := validRequest()
	req.ApproverID = " emb-b"
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSelfApproval)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	// бронирование не создано, удержание existing не тронуто
	active, err := store.Reservations().ListCurrent(context.Background(), domain.ReservationFilter{Statuses: domain.ActiveStatuses})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "existing", active[0].ID)
}

func TestUseCase_RejectsSecondActiveReservationForSameCase(t *testing.T) {
	store, uc, _ := setup(t, domain.RoomStatusAvailable)
	seedBooked(t, store)

	req := validRequest()
	req.CaseID = "case-1"
	req.EmbalmerID = "emb-a"
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDuplicateReservation)
	assert.ErrorIs(t, err, domain.ErrConflict)

	active, err := store.Reservations().ListCurrent(context.Background(), domain.ActiveByBusinessKey("fh-1:R1", "case-1", "emb-a"))
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestUseCase_RoomClosed(t *testing.T) {
	_, uc, _ := setup(t, domain.RoomStatusClosed)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrRoomUnavailable)
}
