package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/availability"
)

// RoomRepository интерфейс репозитория комнат
type RoomRepository interface {
	ListCurrent(ctx context.Context, funeralHomeID string) ([]*domain.Room, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListCurrent(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
}

// SlotFinder поиск слотов над загруженными данными
type SlotFinder interface {
	Bounds(q availability.Query) domain.TimeWindow
	Find(q availability.Query) []domain.Slot
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
