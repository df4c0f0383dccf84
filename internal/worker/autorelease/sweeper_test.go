package autorelease

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/reservations"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/reservations/models"
	"github.com/m04kA/SMC-PrepRoomService/pkg/clock"
	"github.com/m04kA/SMC-PrepRoomService/pkg/logger"
)

var created = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type sweepMetrics struct {
	runs     int
	released int
}

func (m *sweepMetrics) RecordSweep(released int, _ time.Duration) {
	m.runs++
	m.released += released
}

type fixture struct {
	store   *memory.Store
	clock   *clock.Fixed
	metrics *sweepMetrics
	service *reservations.Service
	sweeper *Sweeper
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	clk := clock.NewFixed(created)
	log := logger.NewWithWriter(io.Discard, logger.LevelDebug)
	m := &sweepMetrics{}

	svc := reservations.NewService(store.Reservations(), store.TxManager(), domain.DefaultAutoReleasePolicy(), clk, nil, log)

	return &fixture{
		store:   store,
		clock:   clk,
		metrics: m,
		service: svc,
		sweeper: NewSweeper(svc, time.Minute, 0, m, clk, log),
	}
}

func (f *fixture) seed(t *testing.T, id string, status domain.ReservationStatus, createdAt time.Time) {
	t.Helper()
	require.NoError(t, f.store.Reservations().Create(context.Background(), &domain.Reservation{
		ID:            id,
		RoomID:        "fh-1:R1",
		FuneralHomeID: "fh-1",
		CaseID:        "case-" + id,
		EmbalmerID:    "emb-a",
		FamilyID:      "fam-1",
		Status:        status,
		Priority:      domain.PriorityNormal,
		ReservedFrom:  createdAt.Add(2 * time.Hour),
		ReservedTo:    createdAt.Add(4 * time.Hour),
		CreatedAt:     createdAt,
		Versioning:    domain.FirstVersion(createdAt),
	}))
}

func TestSweeper_ReleasesPendingWithoutCheckIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "pending", domain.StatusPending, created)

	f.clock.Set(created.Add(30 * time.Minute))
	n, err := f.sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "grace period has not elapsed yet")

	f.clock.Set(created.Add(31 * time.Minute))
	n, err = f.sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	current, err := f.service.GetByID(ctx, "pending")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusAutoReleased), current.Status)
	assert.Contains(t, *current.Notes, "[auto-released]")
}

func TestSweeper_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "a", domain.StatusPending, created)
	f.seed(t, "b", domain.StatusConfirmed, created.Add(5*time.Minute))
	f.seed(t, "c", domain.StatusInProgress, created)
	f.seed(t, "d", domain.StatusPending, created.Add(time.Hour))

	f.clock.Set(created.Add(time.Hour))

	n, err := f.sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = f.sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	history, err := f.service.History(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, history.Versions, 2, "released exactly once")

	for id, want := range map[string]domain.ReservationStatus{
		"a": domain.StatusAutoReleased,
		"b": domain.StatusAutoReleased,
		"c": domain.StatusInProgress,
		"d": domain.StatusPending,
	} {
		current, err := f.service.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, string(want), current.Status, id)
	}

	assert.Equal(t, 2, f.metrics.runs)
	assert.Equal(t, 2, f.metrics.released)
}

// stubService отдает заранее заданный список и ошибки по id
type stubService struct {
	expired []*models.ReservationResponse
	errs    map[string]error
	listErr error
}

func (s *stubService) ListExpiredHolds(context.Context) ([]*models.ReservationResponse, error) {
	return s.expired, s.listErr
}

func (s *stubService) AutoRelease(_ context.Context, id string) (*models.ReservationResponse, error) {
	if err := s.errs[id]; err != nil {
		return nil, err
	}
	return &models.ReservationResponse{ID: id, Status: string(domain.StatusAutoReleased)}, nil
}

func TestSweeper_ContinuesAfterFailures(t *testing.T) {
	storeErr := errors.New("connection reset")
	svc := &stubService{
		expired: []*models.ReservationResponse{{ID: "raced"}, {ID: "broken"}, {ID: "ok"}},
		errs: map[string]error{
			"raced":  fmt.Errorf("%w: checked in meanwhile", domain.ErrInvalidTransition),
			"broken": storeErr,
		},
	}
	s := NewSweeper(svc, time.Minute, time.Second, nil, clock.NewFixed(created), logger.NewWithWriter(io.Discard, logger.LevelDebug))

	n, err := s.Sweep(context.Background())
	assert.Equal(t, 1, n)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSweepFailed)
	assert.ErrorIs(t, err, storeErr)
	assert.NotContains(t, err.Error(), "raced")
}

func TestSweeper_ListFailure(t *testing.T) {
	svc := &stubService{listErr: errors.New("db down")}
	s := NewSweeper(svc, time.Minute, 0, nil, clock.NewFixed(created), logger.NewWithWriter(io.Discard, logger.LevelDebug))

	n, err := s.Sweep(context.Background())
	assert.Zero(t, n)
	assert.ErrorIs(t, err, ErrSweepFailed)
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", domain.StatusPending, created)
	f.clock.Set(created.Add(time.Hour))

	s := NewSweeper(f.service, 5*time.Millisecond, 0, f.metrics, f.clock, logger.NewWithWriter(io.Discard, logger.LevelDebug))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		current, err := f.service.GetByID(context.Background(), "a")
		return err == nil && current.Status == string(domain.StatusAutoReleased)
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
