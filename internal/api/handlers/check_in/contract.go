package check_in

import (
	"context"

	"github.com/m04kA/SMC-PrepRoomService/internal/service/reservations/models"
)

type ReservationService interface {
	CheckIn(ctx context.Context, id string, req *models.ActorRequest) (*models.CheckInResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
