package list_schedule

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

// UseCase use case отчета о загрузке препараторских
// Только читает данные
type UseCase struct {
	roomRepo        RoomRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	roomRepo RoomRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		roomRepo:        roomRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute строит отчет
// Запланированные минуты считаются по пересечению окна бронирования с периодом; отмененные и
// авто-освобожденные бронирования станцию не занимали и в минуты не входят, но учитываются в StatusCounts.
// Доступные минуты периода = длительность периода * число станций комнаты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ListSchedule: funeralHome=%s, from=%s, to=%s, granularity=%s",
		req.FuneralHomeID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat), req.Granularity)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ListSchedule: validation failed: %v", err)
		return nil, err
	}

	granularity := req.Granularity
	if granularity == "" {
		granularity = GranularityDaily
	}
	rangeWindow := domain.NewTimeWindow(dayStart(req.From), dayStart(req.To).AddDate(0, 0, 1))

	// 2. Согласованный снимок комнат и бронирований
	var (
		rooms        []*domain.Room
		reservations []*domain.Reservation
	)
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		rooms, err = uc.roomRepo.ListCurrent(txCtx, req.FuneralHomeID)
		if err != nil {
			uc.logger.Error("ListSchedule: failed to list rooms for funeralHome=%s: %v", req.FuneralHomeID, err)
			return fmt.Errorf("%w: failed to list rooms: %w", ErrInternal, err)
		}

		reservations, err = uc.reservationRepo.ListCurrent(txCtx, domain.ReservationFilter{
			FuneralHomeID: &req.FuneralHomeID,
			From:          &rangeWindow.Start,
			To:            &rangeWindow.End,
		})
		if err != nil {
			uc.logger.Error("ListSchedule: failed to list reservations for funeralHome=%s: %v", req.FuneralHomeID, err)
			return fmt.Errorf("%w: failed to list reservations: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3. Агрегация по комнатам и периодам
	periods := buckets(rangeWindow, granularity)
	byRoom := make(map[string][]*domain.Reservation, len(rooms))
	for _, r := range reservations {
		byRoom[r.RoomID] = append(byRoom[r.RoomID], r)
	}

	resp := &Response{
		FuneralHomeID: req.FuneralHomeID,
		From:          rangeWindow.Start,
		To:            rangeWindow.End,
		Granularity:   granularity,
		Rooms:         make([]RoomUtilization, 0, len(rooms)),
	}
	for _, room := range rooms {
		resp.Rooms = append(resp.Rooms, utilization(room, byRoom[room.ID], periods, rangeWindow))
	}

	uc.logger.Info("ListSchedule: aggregated %d reservations over %d rooms", len(reservations), len(rooms))
	return resp, nil
}

// buckets разбивает диапазон на дни или недели; последняя неделя обрезается по концу диапазона
func buckets(rng domain.TimeWindow, granularity Granularity) []domain.TimeWindow {
	days := 1
	if granularity == GranularityWeekly {
		days = 7
	}

	result := make([]domain.TimeWindow, 0)
	for start := rng.Start; start.Before(rng.End); start = start.AddDate(0, 0, days) {
		end := start.AddDate(0, 0, days)
		if end.After(rng.End) {
			end = rng.End
		}
		result = append(result, domain.NewTimeWindow(start, end))
	}
	return result
}

func utilization(room *domain.Room, reservations []*domain.Reservation, periods []domain.TimeWindow, rng domain.TimeWindow) RoomUtilization {
	ru := RoomUtilization{
		RoomID:     room.ID,
		RoomNumber: room.RoomNumber,
		Capacity:   room.Capacity,
		Buckets:    make([]Bucket, 0, len(periods)),
	}

	for _, p := range periods {
		ru.Buckets = append(ru.Buckets, aggregate(room, reservations, p))
	}
	ru.Total = aggregate(room, reservations, rng)

	return ru
}

func aggregate(room *domain.Room, reservations []*domain.Reservation, period domain.TimeWindow) Bucket {
	b := Bucket{
		Start:            period.Start,
		End:              period.End,
		AvailableMinutes: int(period.Duration()/time.Minute) * room.Capacity,
		StatusCounts:     make(map[string]int),
	}

	var scheduled time.Duration
	for _, r := range reservations {
		if period.Contains(r.ReservedFrom) {
			b.StatusCounts[string(r.Status)]++
		}
		if r.Status == domain.StatusCancelled || r.Status == domain.StatusAutoReleased {
			continue
		}
		scheduled += r.Window().OverlapDuration(period)
	}

	b.ScheduledMinutes = int(scheduled / time.Minute)
	if b.AvailableMinutes > 0 {
		b.UtilizationPercent = math.Round(float64(b.ScheduledMinutes)/float64(b.AvailableMinutes)*10000) / 100
	}
	return b
}
