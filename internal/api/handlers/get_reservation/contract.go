package get_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/service/reservations/models"
)

type ReservationService interface {
	GetByID(ctx context.Context, id string) (*models.ReservationResponse, error)
	AsOf(ctx context.Context, id string, at time.Time) (*models.ReservationResponse, error)
	History(ctx context.Context, id string) (*models.ReservationHistoryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
