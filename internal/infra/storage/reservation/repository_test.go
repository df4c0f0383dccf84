package reservation

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/infra/storage/temporal"
	"github.com/m04kA/SMC-PrepRoomService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PrepRoomService/pkg/ptr"
)

var ts = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), db, mock
}

func sample() *domain.Reservation {
	return &domain.Reservation{
		ID:            "res-1",
		RoomID:        "fh-1:R1",
		FuneralHomeID: "fh-1",
		CaseID:        "case-1",
		EmbalmerID:    "emb-a",
		FamilyID:      "fam-1",
		Status:        domain.StatusPending,
		Priority:      domain.PriorityNormal,
		ReservedFrom:  ts,
		ReservedTo:    ts.Add(2 * time.Hour),
		CreatedAt:     ts.Add(-time.Hour),
		Versioning:    domain.FirstVersion(ts.Add(-time.Hour)),
	}
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := newRepo(t)
	r := sample()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO prep_room_reservations (reservation_id,room_id,funeral_home_id,case_id,embalmer_id,family_id,status,priority,reserved_from,reserved_to,checked_in_at,checked_out_at,actual_duration_minutes,notes,approved_by,created_at,version,valid_from,valid_to,is_current)`)).
		WithArgs(
			"res-1", "fh-1:R1", "fh-1", "case-1", "emb-a", "fam-1", "pending", "normal",
			ts, ts.Add(2*time.Hour), nil, nil, nil, nil, nil, ts.Add(-time.Hour),
			1, ts.Add(-time.Hour), nil, true,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), r))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateDuplicate(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO prep_room_reservations`)).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), sample())
	assert.ErrorIs(t, err, temporal.ErrAlreadyExists)
}

func TestRepository_AppendVersionInTransaction(t *testing.T) {
	repo, db, mock := newRepo(t)
	prev := sample()
	next, err := prev.Transition(domain.StatusCancelled, ts.Add(-30*time.Minute))
	require.NoError(t, err)
	next.AppendNote("[cancelled] family request")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE prep_room_reservations SET valid_to = $1, is_current = $2 WHERE is_current = $3 AND reservation_id = $4 AND version = $5`)).
		WithArgs(ts.Add(-30*time.Minute), false, true, "res-1", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO prep_room_reservations`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	require.NoError(t, repo.AppendVersion(ctx, next))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_AppendVersionConflict(t *testing.T) {
	repo, _, mock := newRepo(t)
	next, err := sample().Transition(domain.StatusConfirmed, ts)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE prep_room_reservations`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.AppendVersion(context.Background(), next)
	assert.ErrorIs(t, err, temporal.ErrVersionConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LockCurrent(t *testing.T) {
	repo, _, mock := newRepo(t)
	checkedIn := ts.Add(5 * time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM prep_room_reservations WHERE reservation_id = $1 AND is_current = $2 FOR UPDATE`)).
		WithArgs("res-1", true).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"res-1", "fh-1:R1", "fh-1", "case-1", "emb-a", "fam-1", "in_progress", "urgent",
			ts, ts.Add(2*time.Hour), checkedIn, nil, nil, "note", "mgr-1", ts.Add(-time.Hour),
			2, checkedIn, nil, true,
		))

	r, err := repo.LockCurrent(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, r.Status)
	assert.Equal(t, domain.PriorityUrgent, r.Priority)
	require.NotNil(t, r.CheckedInAt)
	assert.Equal(t, checkedIn, *r.CheckedInAt)
	assert.Nil(t, r.CheckedOutAt)
	assert.Nil(t, r.ActualDurationMinutes)
	assert.Equal(t, ptr.Ptr("note"), r.Notes)
	assert.Equal(t, ptr.Ptr("mgr-1"), r.ApprovedBy)
	assert.Equal(t, 2, r.Version)
}

func TestRepository_GetCurrentNotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM prep_room_reservations WHERE reservation_id = $1 AND is_current = $2`)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetCurrent(context.Background(), "missing")
	assert.ErrorIs(t, err, temporal.ErrNotFound)
}

func TestRepository_ListCurrentFilter(t *testing.T) {
	repo, _, mock := newRepo(t)
	to := ts.Add(4 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM prep_room_reservations WHERE is_current = $1 AND funeral_home_id = $2 AND room_id IN ($3,$4) AND status IN ($5,$6) AND reserved_to > $7 AND reserved_from < $8 AND checked_in_at IS NULL ORDER BY reserved_from, reservation_id`)).
		WithArgs(true, "fh-1", "fh-1:R1", "fh-1:R2", "pending", "confirmed", ts, to).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"res-1", "fh-1:R1", "fh-1", "case-1", "emb-a", "fam-1", "pending", "normal",
			ts, ts.Add(2*time.Hour), nil, nil, nil, nil, nil, ts.Add(-time.Hour),
			1, ts.Add(-time.Hour), nil, true,
		))

	got, err := repo.ListCurrent(context.Background(), domain.ReservationFilter{
		FuneralHomeID:    ptr.Ptr("fh-1"),
		RoomIDs:          []string{"fh-1:R1", "fh-1:R2"},
		Statuses:         domain.AwaitingCheckInStatuses,
		From:             &ts,
		To:               &to,
		OnlyNotCheckedIn: true,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Notes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListCurrentExpiredHolds(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE is_current = $1 AND status IN ($2,$3) AND created_at < $4 AND checked_in_at IS NULL`)).
		WithArgs(true, "pending", "confirmed", ts).
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.ListCurrent(context.Background(), domain.ReservationFilter{
		Statuses:         domain.AwaitingCheckInStatuses,
		CreatedBefore:    &ts,
		OnlyNotCheckedIn: true,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRepository_ListCurrentExpiredHoldsByScheduledStart(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE is_current = $1 AND status IN ($2,$3) AND reserved_from < $4 AND checked_in_at IS NULL`)).
		WithArgs(true, "pending", "confirmed", ts).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"res-1", "fh-1:R1", "fh-1", "case-1", "emb-a", "fam-1", "confirmed", "normal",
			ts.Add(-time.Hour), ts.Add(time.Hour), nil, nil, nil, nil, nil, ts.Add(-2*time.Hour),
			2, ts.Add(-90*time.Minute), nil, true,
		))

	got, err := repo.ListCurrent(context.Background(), domain.ReservationFilter{
		Statuses:           domain.AwaitingCheckInStatuses,
		ReservedFromBefore: &ts,
		OnlyNotCheckedIn:   true,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.StatusConfirmed, got[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListCurrentByBusinessKey(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE is_current = $1 AND room_id IN ($2) AND case_id = $3 AND embalmer_id = $4 AND status IN ($5,$6,$7)`)).
		WithArgs(true, "fh-1:R1", "case-1", "emb-a", "pending", "confirmed", "in_progress").
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.ListCurrent(context.Background(), domain.ActiveByBusinessKey("fh-1:R1", "case-1", "emb-a"))
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_QueryErrorKeepsDriverError(t *testing.T) {
	repo, _, mock := newRepo(t)
	serialization := &pq.Error{Code: "40001"}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM prep_room_reservations WHERE reservation_id = $1 ORDER BY version`)).
		WillReturnError(serialization)

	_, err := repo.History(context.Background(), "res-1")
	assert.ErrorIs(t, err, ErrExecQuery)

	var pqErr *pq.Error
	assert.True(t, errors.As(err, &pqErr))
}
