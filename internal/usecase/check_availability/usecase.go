package check_availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/availability"
	"github.com/m04kA/SMC-PrepRoomService/pkg/ptr"
)

// UseCase use case для поиска свободных слотов по всем комнатам похоронного дома
type UseCase struct {
	roomRepo        RoomRepository
	reservationRepo ReservationRepository
	finder          SlotFinder
	txManager       TransactionManager
	policy          domain.SchedulingPolicy
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	roomRepo RoomRepository,
	reservationRepo ReservationRepository,
	finder SlotFinder,
	txManager TransactionManager,
	policy domain.SchedulingPolicy,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		roomRepo:        roomRepo,
		reservationRepo: reservationRepo,
		finder:          finder,
		txManager:       txManager,
		policy:          policy,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет поиск слотов
// Если свободных слотов в горизонте поиска нет, возвращается пустой список, а не ошибка
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: funeralHome=%s, duration=%d, priority=%s",
		req.FuneralHomeID, req.DurationMinutes, req.Priority)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.policy); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	priority := priorityOrDefault(req.Priority)

	// 2. Поиск по согласованному снимку комнат и бронирований
	slots, err := uc.find(ctx, availability.Query{
		Duration:   time.Duration(req.DurationMinutes) * time.Minute,
		Priority:   priority,
		Now:        uc.timeProvider.Now(),
		SearchFrom: req.SearchFrom,
		SearchTo:   req.SearchTo,
		Limit:      req.Limit,
	}, req.FuneralHomeID)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CheckAvailability: found %d slots for funeralHome=%s", len(slots), req.FuneralHomeID)

	resp := &Response{
		FuneralHomeID:   req.FuneralHomeID,
		DurationMinutes: req.DurationMinutes,
		Priority:        string(priority),
		Slots:           make([]Slot, 0, len(slots)),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, Slot{
			RoomID:     s.RoomID,
			RoomNumber: s.RoomNumber,
			Start:      s.Start,
			End:        s.End,
		})
	}
	return resp, nil
}

// FindSlots подбирает альтернативы для конфликтующего запроса, начиная с from
func (uc *UseCase) FindSlots(ctx context.Context, funeralHomeID string, duration time.Duration, priority domain.Priority, from time.Time) ([]domain.Slot, error) {
	return uc.find(ctx, availability.Query{
		Duration:   duration,
		Priority:   priority,
		Now:        uc.timeProvider.Now(),
		SearchFrom: ptr.Ptr(from),
	}, funeralHomeID)
}

func (uc *UseCase) find(ctx context.Context, q availability.Query, funeralHomeID string) ([]domain.Slot, error) {
	bounds := uc.finder.Bounds(q)

	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		rooms, err := uc.roomRepo.ListCurrent(txCtx, funeralHomeID)
		if err != nil {
			uc.logger.Error("CheckAvailability: failed to list rooms for funeralHome=%s: %v", funeralHomeID, err)
			return fmt.Errorf("%w: failed to list rooms: %w", ErrInternal, err)
		}

		// Бронирования, занятость которых (с буфером) может пересечься с кандидатами в окне поиска
		from := bounds.Start.Add(-uc.policy.Buffer)
		to := bounds.End.Add(uc.policy.Buffer)
		reservations, err := uc.reservationRepo.ListCurrent(txCtx, domain.ReservationFilter{
			FuneralHomeID: &funeralHomeID,
			Statuses:      domain.ActiveStatuses,
			From:          &from,
			To:            &to,
		})
		if err != nil {
			uc.logger.Error("CheckAvailability: failed to list reservations for funeralHome=%s: %v", funeralHomeID, err)
			return fmt.Errorf("%w: failed to list reservations: %w", ErrInternal, err)
		}

		q.Rooms = rooms
		q.Reservations = reservations
		return nil
	})
	if err != nil {
		return nil, err
	}

	return uc.finder.Find(q), nil
}
