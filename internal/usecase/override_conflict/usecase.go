package override_conflict

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/infra/storage/temporal"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/conflict"
	"github.com/m04kA/SMC-PrepRoomService/pkg/ptr"
)

// UseCase use case принудительного бронирования менеджером вопреки конфликту
// Созданное бронирование всегда срочное, хранит менеджера и обоснование для аудита
type UseCase struct {
	roomRepo        RoomRepository
	reservationRepo ReservationRepository
	detector        ConflictDetector
	txManager       TransactionManager
	policy          domain.SchedulingPolicy
	timeProvider    TimeProvider
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	roomRepo RoomRepository,
	reservationRepo ReservationRepository,
	detector ConflictDetector,
	txManager TransactionManager,
	policy domain.SchedulingPolicy,
	timeProvider TimeProvider,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		roomRepo:        roomRepo,
		reservationRepo: reservationRepo,
		detector:        detector,
		txManager:       txManager,
		policy:          policy,
		timeProvider:    timeProvider,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет override
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("OverrideConflict: room=%s, case=%s, embalmer=%s, approver=%s",
		req.RoomID, req.CaseID, req.EmbalmerID, req.ApproverID)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.policy); err != nil {
		uc.logger.Warn("OverrideConflict: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if req.ReservedFrom.Before(now) {
		uc.logger.Warn("OverrideConflict: reservedFrom=%s is in the past", req.ReservedFrom)
		return nil, fmt.Errorf("%w: reservedFrom is before now", ErrWindowInPast)
	}

	window := domain.NewTimeWindow(req.ReservedFrom, req.ReservedTo)
	var (
		result     *domain.Reservation
		overridden []string
	)

	// 2. Запись в сериализуемой транзакции под блокировкой комнаты
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		room, err := uc.roomRepo.LockCurrent(txCtx, req.RoomID)
		if err != nil {
			if errors.Is(err, temporal.ErrNotFound) {
				uc.logger.Warn("OverrideConflict: room=%s not found", req.RoomID)
				return fmt.Errorf("%w: %s", ErrRoomNotFound, req.RoomID)
			}
			uc.logger.Error("OverrideConflict: failed to lock room=%s: %v", req.RoomID, err)
			return fmt.Errorf("%w: failed to lock room: %w", ErrInternal, err)
		}

		if !room.IsBookable() {
			uc.logger.Warn("OverrideConflict: room=%s has status=%s", room.ID, room.Status)
			return fmt.Errorf("%w: room %s is %s", ErrRoomUnavailable, room.ID, room.Status)
		}

		// Override обходит только детектор конфликтов, повторное бронирование того же дела не допускается
		dup, err := uc.reservationRepo.ListCurrent(txCtx, domain.ActiveByBusinessKey(room.ID, req.CaseID, req.EmbalmerID))
		if err != nil {
			uc.logger.Error("OverrideConflict: failed to check business key for room=%s: %v", room.ID, err)
			return fmt.Errorf("%w: failed to list reservations: %w", ErrInternal, err)
		}
		if len(dup) > 0 {
			uc.logger.Warn("OverrideConflict: case=%s, embalmer=%s already holds reservation=%s in room=%s",
				req.CaseID, req.EmbalmerID, dup[0].ID, room.ID)
			return fmt.Errorf("%w: reservation %s", ErrDuplicateReservation, dup[0].ID)
		}

		existing, err := uc.reservationRepo.ListCurrent(txCtx, activeNear(room.ID, window, uc.policy.Buffer))
		if err != nil {
			uc.logger.Error("OverrideConflict: failed to list reservations for room=%s: %v", room.ID, err)
			return fmt.Errorf("%w: failed to list reservations: %w", ErrInternal, err)
		}

		// Решение детектора не блокирует запись, но конфликтующие бронирования попадают в аудит
		check := uc.detector.Check(conflict.Request{Room: room, Window: window, Priority: domain.PriorityUrgent}, existing)
		overridden = make([]string, 0, len(check.Collisions))
		for _, c := range check.Collisions {
			overridden = append(overridden, c.ReservationID)
		}

		reservation := &domain.Reservation{
			ID:            uuid.NewString(),
			RoomID:        room.ID,
			FuneralHomeID: room.FuneralHomeID,
			CaseID:        req.CaseID,
			EmbalmerID:    req.EmbalmerID,
			FamilyID:      req.FamilyID,
			Status:        domain.StatusPending,
			Priority:      domain.PriorityUrgent,
			ReservedFrom:  req.ReservedFrom,
			ReservedTo:    req.ReservedTo,
			ApprovedBy:    ptr.Ptr(strings.TrimSpace(req.ApproverID)),
			CreatedAt:     now,
			Versioning:    domain.FirstVersion(now),
		}
		reservation.AppendNote(auditNote(req.ApproverID, req.Justification, overridden))
		if req.Notes != nil {
			reservation.AppendNote(*req.Notes)
		}

		if err := uc.reservationRepo.Create(txCtx, reservation); err != nil {
			if errors.Is(err, temporal.ErrAlreadyExists) {
				uc.logger.Warn("OverrideConflict: duplicate business key %s", reservation.BusinessKey())
				return fmt.Errorf("%w: %s", ErrDuplicateReservation, reservation.BusinessKey())
			}
			uc.logger.Error("OverrideConflict: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		result = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RecordReservationCreated(string(result.Priority), true)
	}
	uc.logger.Info("OverrideConflict: created reservation id=%s in room=%s approved by %s, overriding %d reservations",
		result.ID, result.RoomID, *result.ApprovedBy, len(overridden))

	return &Response{
		ReservationID:            result.ID,
		RoomID:                   result.RoomID,
		Status:                   string(result.Status),
		Priority:                 string(result.Priority),
		ApprovedBy:               *result.ApprovedBy,
		Notes:                    ptr.Value(result.Notes),
		ReservedFrom:             result.ReservedFrom,
		ReservedTo:               result.ReservedTo,
		CreatedAt:                result.CreatedAt,
		OverriddenReservationIDs: overridden,
	}, nil
}
