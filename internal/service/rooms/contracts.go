package rooms

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

// RoomRepository интерфейс темпорального репозитория комнат
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetCurrent(ctx context.Context, id string) (*domain.Room, error)
	LockCurrent(ctx context.Context, id string) (*domain.Room, error)
	AppendVersion(ctx context.Context, next *domain.Room) error
	ListCurrent(ctx context.Context, funeralHomeID string) ([]*domain.Room, error)
	History(ctx context.Context, id string) ([]*domain.Room, error)
	AsOf(ctx context.Context, id string, at time.Time) (*domain.Room, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
