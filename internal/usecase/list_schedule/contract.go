package list_schedule

import (
	"context"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

// RoomRepository интерфейс репозитория комнат
type RoomRepository interface {
	ListCurrent(ctx context.Context, funeralHomeID string) ([]*domain.Room, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListCurrent(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
