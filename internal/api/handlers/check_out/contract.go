package check_out

import (
	"context"

	"github.com/m04kA/SMC-PrepRoomService/internal/service/reservations/models"
)

type ReservationService interface {
	CheckOut(ctx context.Context, id string, req *models.ActorRequest) (*models.CheckOutResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
