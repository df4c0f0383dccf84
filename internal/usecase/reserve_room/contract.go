package reserve_room

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/conflict"
)

// RoomRepository интерфейс репозитория комнат
type RoomRepository interface {
	LockCurrent(ctx context.Context, id string) (*domain.Room, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	ListCurrent(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
}

// ConflictDetector проверка пересечений с учетом буфера и вместимости
type ConflictDetector interface {
	Check(req conflict.Request, existing []*domain.Reservation) conflict.Result
}

// SlotSuggester подбирает альтернативные слоты при конфликте
type SlotSuggester interface {
	FindSlots(ctx context.Context, funeralHomeID string, duration time.Duration, priority domain.Priority, from time.Time) ([]domain.Slot, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Metrics счетчики созданных бронирований и конфликтов
type Metrics interface {
	RecordReservationCreated(priority string, override bool)
	RecordConflict()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
