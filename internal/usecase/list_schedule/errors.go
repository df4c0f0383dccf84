package list_schedule

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: list_schedule: invalid input data", domain.ErrValidation)

	// ErrRangeTooLong возвращается, когда диапазон отчета слишком длинный
	ErrRangeTooLong = fmt.Errorf("%w: list_schedule: date range is too long", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("list_schedule: internal error")
)
