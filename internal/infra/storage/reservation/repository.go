package reservation

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
	tableName = "prep_room_reservations"
	keyColumn = "reservation_id"

	uniqueViolation = "23505"
)

var columns = append([]string{
	keyColumn,
	"room_id",
	"funeral_home_id",
	"case_id",
	"embalmer_id",
	"family_id",
	"status",
	"priority",
	"reserved_from",
	"reserved_to",
	"checked_in_at",
	"checked_out_at",
	"actual_duration_minutes",
	"notes",
	"approved_by",
	"created_at",
}, temporal.VersionColumns...)

// Repository темпоральный репозиторий бронирований в PostgreSQL
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет первую версию бронирования
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, reservation *domain.Reservation) error {
	if err := r.insert(ctx, reservation); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: reservation %s", temporal.ErrAlreadyExists, reservation.ID)
		}
		return err
	}
	return nil
}

// AppendVersion закрывает версию next.Version-1 и добавляет next
// Вызывается внутри транзакции; если предыдущая версия уже закрыта, возвращает temporal.ErrVersionConflict
func (r *Repository) AppendVersion(ctx context.Context, next *domain.Reservation) error {
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
		return fmt.Errorf("%w: reservation %s version %d is not current", temporal.ErrVersionConflict, next.ID, next.Version-1)
	}

	if err := r.insert(ctx, next); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: reservation %s version %d", temporal.ErrVersionConflict, next.ID, next.Version)
		}
		return err
	}
	return nil
}

// GetCurrent текущая версия бронирования
func (r *Repository) GetCurrent(ctx context.Context, id string) (*domain.Reservation, error) {
	return r.getOne(ctx, "GetCurrent", psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{keyColumn: id}).
		Where(temporal.Current()), id)
}

// LockCurrent текущая версия бронирования с блокировкой строки до конца транзакции
// Check-in и auto-release одного бронирования не выполняются одновременно
func (r *Repository) LockCurrent(ctx context.Context, id string) (*domain.Reservation, error) {
	return r.getOne(ctx, "LockCurrent", psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{keyColumn: id}).
		Where(temporal.Current()).
		Suffix("FOR UPDATE"), id)
}

// AsOf версия бронирования, действовавшая в момент at
func (r *Repository) AsOf(ctx context.Context, id string, at time.Time) (*domain.Reservation, error) {
	return r.getOne(ctx, "AsOf", psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{keyColumn: id}).
		Where(temporal.AsOf(at)), id)
}

// History все версии бронирования по возрастанию номера версии
func (r *Repository) History(ctx context.Context, id string) ([]*domain.Reservation, error) {
	reservations, err := r.list(ctx, "History", psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{keyColumn: id}).
		OrderBy(temporal.ColumnVersion))
	if err != nil {
		return nil, err
	}
	if len(reservations) == 0 {
		return nil, fmt.Errorf("%w: reservation %s", temporal.ErrNotFound, id)
	}
	return reservations, nil
}

// ListCurrent текущие версии бронирований по фильтру, по времени начала
// Пустые поля фильтра не ограничивают выборку
//
// Примеры использования:
//
// Бронирования комнаты, пересекающие окно (поиск конфликтов):
//
//	filter := domain.ReservationFilter{RoomIDs: []string{roomID}, From: &from, To: &to}
//
// Просроченные удержания для auto-release:
//
//	filter := domain.ReservationFilter{Statuses: domain.AwaitingCheckInStatuses, CreatedBefore: &cutoff, OnlyNotCheckedIn: true}
//
// Активные бронирования с тем же бизнес-ключом:
//
//	filter := domain.ActiveByBusinessKey(roomID, caseID, embalmerID)
func (r *Repository) ListCurrent(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(temporal.Current()).
		OrderBy("reserved_from", keyColumn)

	if filter.FuneralHomeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"funeral_home_id": *filter.FuneralHomeID})
	}
	if len(filter.RoomIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"room_id": filter.RoomIDs})
	}
	if filter.CaseID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"case_id": *filter.CaseID})
	}
	if filter.EmbalmerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"embalmer_id": *filter.EmbalmerID})
	}
	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": filter.StatusStrings()})
	}
	// Пересечение [reserved_from, reserved_to) с [From, To)
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"reserved_to": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"reserved_from": *filter.To})
	}
	if filter.CreatedBefore != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"created_at": *filter.CreatedBefore})
	}
	if filter.ReservedFromBefore != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"reserved_from": *filter.ReservedFromBefore})
	}
	if filter.OnlyNotCheckedIn {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"checked_in_at": nil})
	}

	return r.list(ctx, "ListCurrent", selectBuilder)
}

func (r *Repository) insert(ctx context.Context, reservation *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(columns...).
		Values(
			reservation.ID,
			reservation.RoomID,
			reservation.FuneralHomeID,
			reservation.CaseID,
			reservation.EmbalmerID,
			reservation.FamilyID,
			string(reservation.Status),
			string(reservation.Priority),
			reservation.ReservedFrom,
			reservation.ReservedTo,
			reservation.CheckedInAt,
			reservation.CheckedOutAt,
			reservation.ActualDurationMinutes,
			reservation.Notes,
			reservation.ApprovedBy,
			reservation.CreatedAt,
			reservation.Version,
			reservation.ValidFrom,
			reservation.ValidTo,
			reservation.IsCurrent,
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

func (r *Repository) getOne(ctx context.Context, op string, builder squirrel.SelectBuilder, id string) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	reservation, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: reservation %s", temporal.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan reservation: %w", ErrScanRow, op, err)
	}
	return reservation, nil
}

func (r *Repository) list(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.Reservation, error) {
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

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan reservation: %w", ErrScanRow, op, err)
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %w", ErrScanRow, op, err)
	}

	return reservations, nil
}

func scanReservation(s scanner) (*domain.Reservation, error) {
	var (
		res                       domain.Reservation
		status, priority          string
		checkedInAt, checkedOutAt sql.NullTime
		validTo                   sql.NullTime
		actualDuration            sql.NullInt64
		notes, approvedBy         sql.NullString
	)

	err := s.Scan(
		&res.ID,
		&res.RoomID,
		&res.FuneralHomeID,
		&res.CaseID,
		&res.EmbalmerID,
		&res.FamilyID,
		&status,
		&priority,
		&res.ReservedFrom,
		&res.ReservedTo,
		&checkedInAt,
		&checkedOutAt,
		&actualDuration,
		&notes,
		&approvedBy,
		&res.CreatedAt,
		&res.Version,
		&res.ValidFrom,
		&validTo,
		&res.IsCurrent,
	)
	if err != nil {
		return nil, err
	}

	res.Status = domain.ReservationStatus(status)
	res.Priority = domain.Priority(priority)
	res.CheckedInAt = nullTime(checkedInAt)
	res.CheckedOutAt = nullTime(checkedOutAt)
	res.ValidTo = nullTime(validTo)
	if actualDuration.Valid {
		minutes := int(actualDuration.Int64)
		res.ActualDurationMinutes = &minutes
	}
	if notes.Valid {
		res.Notes = &notes.String
	}
	if approvedBy.Valid {
		res.ApprovedBy = &approvedBy.String
	}

	return &res, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
