package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/infra/storage/temporal"
	"github.com/m04kA/SMC-PrepRoomService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PrepRoomService/pkg/psqlbuilder"
)

const (
	tableName = "prep_rooms"
	keyColumn = "room_id"

	uniqueViolation = "23505"
)

var columns = append([]string{
	keyColumn,
	"funeral_home_id",
	"room_number",
	"capacity",
	"status",
}, temporal.VersionColumns...)

// Repository темпоральный репозиторий препараторских в PostgreSQL
// Строки не изменяются, кроме закрытия версии (valid_to, is_current)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория комнат
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет первую версию комнаты
// Если у бизнес-ключа уже есть текущая версия, возвращает temporal.ErrAlreadyExists
func (r *Repository) Create(ctx context.Context, room *domain.Room) error {
	if err := r.insert(ctx, room); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: room %s", temporal.ErrAlreadyExists, room.ID)
		}
		return err
	}
	return nil
}

// AppendVersion закрывает текущую версию next.Version-1 и добавляет next
// Вызывается внутри транзакции; если предыдущая версия уже закрыта, возвращает temporal.ErrVersionConflict
func (r *Repository) AppendVersion(ctx context.Context, next *domain.Room) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := temporal.CloseVersion(psqlbuilder.Update(tableName), keyColumn, next.ID, next.Version-1, next.ValidFrom).ToSql()
	if err != nil {
		return fmt.Errorf("%w: AppendVersion - build close query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AppendVersion - close version: %w", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AppendVersion - rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: room %s version %d is not current", temporal.ErrVersionConflict, next.ID, next.Version-1)
	}

	if err := r.insert(ctx, next); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: room %s version %d", temporal.ErrVersionConflict, next.ID, next.Version)
		}
		return err
	}
	return nil
}

// GetCurrent текущая версия комнаты
func (r *Repository) GetCurrent(ctx context.Context, id string) (*domain.Room, error) {
	return r.getOne(ctx, "GetCurrent", psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{keyColumn: id}).
		Where(temporal.Current()), id)
}

// LockCurrent текущая версия комнаты с блокировкой строки до конца транзакции
// Сериализует проверку конфликтов и запись бронирований в одной комнате
func (r *Repository) LockCurrent(ctx context.Context, id string) (*domain.Room, error) {
	return r.getOne(ctx, "LockCurrent", psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{keyColumn: id}).
		Where(temporal.Current()).
		Suffix("FOR UPDATE"), id)
}

// AsOf версия комнаты, действовавшая в момент at
func (r *Repository) AsOf(ctx context.Context, id string, at time.Time) (*domain.Room, error) {
	return r.getOne(ctx, "AsOf", psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{keyColumn: id}).
		Where(temporal.AsOf(at)), id)
}

// ListCurrent текущие версии комнат похоронного дома, по номеру комнаты
func (r *Repository) ListCurrent(ctx context.Context, funeralHomeID string) ([]*domain.Room, error) {
	return r.list(ctx, "ListCurrent", psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"funeral_home_id": funeralHomeID}).
		Where(temporal.Current()).
		OrderBy("room_number"))
}

// History все версии комнаты по возрастанию номера версии
func (r *Repository) History(ctx context.Context, id string) ([]*domain.Room, error) {
	rooms, err := r.list(ctx, "History", psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{keyColumn: id}).
		OrderBy(temporal.ColumnVersion))
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("%w: room %s", temporal.ErrNotFound, id)
	}
	return rooms, nil
}

func (r *Repository) insert(ctx context.Context, room *domain.Room) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(columns...).
		Values(
			room.ID,
			room.FuneralHomeID,
			room.RoomNumber,
			room.Capacity,
			room.Status,
			room.Version,
			room.ValidFrom,
			room.ValidTo,
			room.IsCurrent,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: insert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insert - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) getOne(ctx context.Context, op string, builder squirrel.SelectBuilder, id string) (*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	room, err := scanRoom(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: room %s", temporal.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan room: %w", ErrScanRow, op, err)
	}
	return room, nil
}

func (r *Repository) list(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan room: %w", ErrScanRow, op, err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %w", ErrScanRow, op, err)
	}

	return rooms, nil
}

func scanRoom(s scanner) (*domain.Room, error) {
	var room domain.Room
	var validTo sql.NullTime

	err := s.Scan(
		&room.ID,
		&room.FuneralHomeID,
		&room.RoomNumber,
		&room.Capacity,
		&room.Status,
		&room.Version,
		&room.ValidFrom,
		&validTo,
		&room.IsCurrent,
	)
	if err != nil {
		return nil, err
	}

	if validTo.Valid {
		room.ValidTo = &validTo.Time
	}
	return &room, nil
}
