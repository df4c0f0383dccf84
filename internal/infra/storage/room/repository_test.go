package room

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/infra/storage/temporal"
)

var ts = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func roomRows() *sqlmock.Rows {
	return sqlmock.NewRows(columns)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newRepo(t)
	room := &domain.Room{
		ID:            "fh-1:R1",
		FuneralHomeID: "fh-1",
		RoomNumber:    "R1",
		Capacity:      2,
		Status:        domain.RoomStatusAvailable,
		Versioning:    domain.FirstVersion(ts),
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO prep_rooms (room_id,funeral_home_id,room_number,capacity,status,version,valid_from,valid_to,is_current) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`)).
		WithArgs("fh-1:R1", "fh-1", "R1", 2, "available", 1, ts, nil, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), room))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateDuplicate(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO prep_rooms`)).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &domain.Room{ID: "fh-1:R1", Versioning: domain.FirstVersion(ts)})
	assert.ErrorIs(t, err, temporal.ErrAlreadyExists)
}

func TestRepository_AppendVersion(t *testing.T) {
	repo, mock := newRepo(t)
	next := &domain.Room{
		ID:            "fh-1:R1",
		FuneralHomeID: "fh-1",
		RoomNumber:    "R1",
		Capacity:      1,
		Status:        domain.RoomStatusMaintenance,
		Versioning:    domain.Versioning{Version: 2, ValidFrom: ts, IsCurrent: true},
	}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE prep_rooms SET valid_to = $1, is_current = $2 WHERE is_current = $3 AND room_id = $4 AND version = $5`)).
		WithArgs(ts, false, true, "fh-1:R1", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO prep_rooms`)).
		WithArgs("fh-1:R1", "fh-1", "R1", 1, "maintenance", 2, ts, nil, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AppendVersion(context.Background(), next))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_AppendVersionConflict(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE prep_rooms`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AppendVersion(context.Background(), &domain.Room{
		ID:         "fh-1:R1",
		Versioning: domain.Versioning{Version: 3, ValidFrom: ts, IsCurrent: true},
	})
	assert.ErrorIs(t, err, temporal.ErrVersionConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LockCurrent(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM prep_rooms WHERE room_id = $1 AND is_current = $2 FOR UPDATE`)).
		WithArgs("fh-1:R1", true).
		WillReturnRows(roomRows().AddRow("fh-1:R1", "fh-1", "R1", 2, "available", 4, ts, nil, true))

	room, err := repo.LockCurrent(context.Background(), "fh-1:R1")
	require.NoError(t, err)
	assert.Equal(t, 2, room.Capacity)
	assert.Equal(t, domain.RoomStatusAvailable, room.Status)
	assert.Equal(t, 4, room.Version)
	assert.Nil(t, room.ValidTo)
	assert.True(t, room.IsCurrent)
}

func TestRepository_GetCurrentNotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM prep_rooms WHERE room_id = $1 AND is_current = $2`)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetCurrent(context.Background(), "missing")
	assert.ErrorIs(t, err, temporal.ErrNotFound)
}

func TestRepository_AsOf(t *testing.T) {
	repo, mock := newRepo(t)
	closed := ts.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM prep_rooms WHERE room_id = $1 AND (valid_from <= $2 AND (valid_to IS NULL OR valid_to > $3))`)).
		WithArgs("fh-1:R1", ts, ts).
		WillReturnRows(roomRows().AddRow("fh-1:R1", "fh-1", "R1", 1, "available", 1, ts.Add(-time.Hour), closed, false))

	room, err := repo.AsOf(context.Background(), "fh-1:R1", ts)
	require.NoError(t, err)
	require.NotNil(t, room.ValidTo)
	assert.Equal(t, closed, *room.ValidTo)
	assert.False(t, room.IsCurrent)
}

func TestRepository_ListCurrentAndHistory(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM prep_rooms WHERE funeral_home_id = $1 AND is_current = $2 ORDER BY room_number`)).
		WithArgs("fh-1", true).
		WillReturnRows(roomRows().
			AddRow("fh-1:R1", "fh-1", "R1", 1, "available", 1, ts, nil, true).
			AddRow("fh-1:R2", "fh-1", "R2", 2, "closed", 2, ts, nil, true))

	rooms, err := repo.ListCurrent(context.Background(), "fh-1")
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "R2", rooms[1].RoomNumber)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM prep_rooms WHERE room_id = $1 ORDER BY version`)).
		WithArgs("missing").
		WillReturnRows(roomRows())

	_, err = repo.History(context.Background(), "missing")
	assert.ErrorIs(t, err, temporal.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
