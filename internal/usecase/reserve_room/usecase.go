package reserve_room

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/infra/storage/temporal"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/conflict"
)

// UseCase use case для бронирования станции в препараторской
type UseCase struct {
	roomRepo        RoomRepository
	reservationRepo ReservationRepository
	detector        ConflictDetector
	suggester       SlotSuggester
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
	suggester SlotSuggester,
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
		suggester:       suggester,
		txManager:       txManager,
		policy:          policy,
		timeProvider:    timeProvider,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет use case бронирования
// Проверка конфликтов и запись выполняются в одной сериализуемой транзакции под блокировкой комнаты.
// При конфликте возвращается *domain.ConflictError с пересечениями и, если удалось, альтернативными слотами
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveRoom: room=%s, case=%s, embalmer=%s, window=[%s, %s), priority=%s",
		req.RoomID, req.CaseID, req.EmbalmerID,
		req.ReservedFrom.Format("2006-01-02T15:04"), req.ReservedTo.Format("2006-01-02T15:04"), req.Priority)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.policy); err != nil {
		uc.logger.Warn("ReserveRoom: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	if err := validateNotInPast(req.ReservedFrom, now); err != nil {
		uc.logger.Warn("ReserveRoom: validation failed: %v", err)
		return nil, err
	}

	priority := domain.PriorityNormal
	if req.Priority != "" {
		priority = domain.Priority(req.Priority)
	}
	window := domain.NewTimeWindow(req.ReservedFrom, req.ReservedTo)

	var (
		result      *domain.Reservation
		funeralHome string
	)

	// 3. Проверка и запись в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем текущую версию комнаты: конкурентные бронирования комнаты выстраиваются в очередь
		room, err := uc.roomRepo.LockCurrent(txCtx, req.RoomID)
		if err != nil {
			if errors.Is(err, temporal.ErrNotFound) {
				uc.logger.Warn("ReserveRoom: room=%s not found", req.RoomID)
				return fmt.Errorf("%w: %s", ErrRoomNotFound, req.RoomID)
			}
			uc.logger.Error("ReserveRoom: failed to lock room=%s: %v", req.RoomID, err)
			return fmt.Errorf("%w: failed to lock room: %w", ErrInternal, err)
		}
		funeralHome = room.FuneralHomeID

		if !room.IsBookable() {
			uc.logger.Warn("ReserveRoom: room=%s has status=%s", room.ID, room.Status)
			return fmt.Errorf("%w: room %s is %s", ErrRoomUnavailable, room.ID, room.Status)
		}

		// 3.2. У дела и бальзамировщика не больше одного активного бронирования комнаты
		dup, err := uc.reservationRepo.ListCurrent(txCtx, domain.ActiveByBusinessKey(room.ID, req.CaseID, req.EmbalmerID))
		if err != nil {
			uc.logger.Error("ReserveRoom: failed to check business key for room=%s: %v", room.ID, err)
			return fmt.Errorf("%w: failed to list reservations: %w", ErrInternal, err)
		}
		if len(dup) > 0 {
			uc.logger.Warn("ReserveRoom: case=%s, embalmer=%s already holds reservation=%s in room=%s",
				req.CaseID, req.EmbalmerID, dup[0].ID, room.ID)
			return fmt.Errorf("%w: reservation %s", ErrDuplicateReservation, dup[0].ID)
		}

		// 3.3. Активные бронирования комнаты около запрошенного окна
		existing, err := uc.reservationRepo.ListCurrent(txCtx, activeNear(room.ID, window, uc.policy.Buffer))
		if err != nil {
			uc.logger.Error("ReserveRoom: failed to list reservations for room=%s: %v", room.ID, err)
			return fmt.Errorf("%w: failed to list reservations: %w", ErrInternal, err)
		}

		// 3.4. Проверяем конфликты с учетом буфера и числа станций
		check := uc.detector.Check(conflict.Request{Room: room, Window: window, Priority: priority}, existing)
		if check.Blocked {
			uc.logger.Warn("ReserveRoom: room=%s conflicts with %d reservations", room.ID, len(check.Collisions))
			return &domain.ConflictError{
				RoomID:     room.ID,
				Window:     window,
				Collisions: check.Collisions,
			}
		}

		// 3.5. Создаем первую версию бронирования
		reservation := &domain.Reservation{
			ID:            uuid.NewString(),
			RoomID:        room.ID,
			FuneralHomeID: room.FuneralHomeID,
			CaseID:        req.CaseID,
			EmbalmerID:    req.EmbalmerID,
			FamilyID:      req.FamilyID,
			Status:        domain.StatusPending,
			Priority:      priority,
			ReservedFrom:  req.ReservedFrom,
			ReservedTo:    req.ReservedTo,
			CreatedAt:     now,
			Versioning:    domain.FirstVersion(now),
		}
		if req.Notes != nil {
			reservation.AppendNote(*req.Notes)
		}

		if err := uc.reservationRepo.Create(txCtx, reservation); err != nil {
			if errors.Is(err, temporal.ErrAlreadyExists) {
				uc.logger.Warn("ReserveRoom: duplicate business key %s", reservation.BusinessKey())
				return fmt.Errorf("%w: %s", ErrDuplicateReservation, reservation.BusinessKey())
			}
			uc.logger.Error("ReserveRoom: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		result = reservation
		return nil
	})

	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		uc.recordConflict()
		conflictErr.Suggestions = uc.suggest(ctx, funeralHome, window, priority)
		return nil, conflictErr
	}
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RecordReservationCreated(string(result.Priority), false)
	}
	uc.logger.Info("ReserveRoom: successfully created reservation id=%s in room=%s", result.ID, result.RoomID)

	return &Response{
		ReservationID: result.ID,
		RoomID:        result.RoomID,
		Status:        string(result.Status),
		Priority:      string(result.Priority),
		ReservedFrom:  result.ReservedFrom,
		ReservedTo:    result.ReservedTo,
		Version:       result.Version,
		CreatedAt:     result.CreatedAt,
	}, nil
}

// suggest подбирает альтернативы вне транзакции; ошибка поиска не мешает вернуть конфликт
func (uc *UseCase) suggest(ctx context.Context, funeralHomeID string, window domain.TimeWindow, priority domain.Priority) []domain.Slot {
	if uc.suggester == nil || strings.TrimSpace(funeralHomeID) == "" {
		return nil
	}

	slots, err := uc.suggester.FindSlots(ctx, funeralHomeID, window.Duration(), priority, window.Start)
	if err != nil {
		uc.logger.Warn("ReserveRoom: failed to compute suggestions for funeralHome=%s: %v", funeralHomeID, err)
		return nil
	}
	return slots
}

func (uc *UseCase) recordConflict() {
	if uc.metrics != nil {
		uc.metrics.RecordConflict()
	}
}
