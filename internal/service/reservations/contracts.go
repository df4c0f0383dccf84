package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

// ReservationRepository интерфейс темпорального репозитория бронирований
type ReservationRepository interface {
	GetCurrent(ctx context.Context, id string) (*domain.Reservation, error)
	LockCurrent(ctx context.Context, id string) (*domain.Reservation, error)
	AppendVersion(ctx context.Context, next *domain.Reservation) error
	ListCurrent(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	History(ctx context.Context, id string) ([]*domain.Reservation, error)
	AsOf(ctx context.Context, id string, at time.Time) (*domain.Reservation, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Metrics счетчики переходов состояний
type Metrics interface {
	RecordTransition(status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
