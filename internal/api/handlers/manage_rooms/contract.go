package manage_rooms

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/service/rooms/models"
)

type RoomService interface {
	Create(ctx context.Context, req *models.CreateRoomRequest) (*models.RoomResponse, error)
	Update(ctx context.Context, id string, req *models.UpdateRoomRequest) (*models.RoomResponse, error)
	GetByID(ctx context.Context, id string) (*models.RoomResponse, error)
	AsOf(ctx context.Context, id string, at time.Time) (*models.RoomResponse, error)
	List(ctx context.Context, funeralHomeID string) (*models.RoomListResponse, error)
	History(ctx context.Context, id string) (*models.RoomListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
