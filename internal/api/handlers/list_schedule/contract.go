package list_schedule

import (
	"context"

	listSchedule "github.com/m04kA/SMC-PrepRoomService/internal/usecase/list_schedule"
)

type ListScheduleUseCase interface {
	Execute(ctx context.Context, req *listSchedule.Request) (*listSchedule.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
