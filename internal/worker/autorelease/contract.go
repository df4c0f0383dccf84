package autorelease

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/service/reservations/models"
)

// ReservationService переходы жизненного цикла, которые использует sweeper
type ReservationService interface {
	ListExpiredHolds(ctx context.Context) ([]*models.ReservationResponse, error)
	AutoRelease(ctx context.Context, id string) (*models.ReservationResponse, error)
}

// Metrics счетчики прогонов
type Metrics interface {
	RecordSweep(released int, duration time.Duration)
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
