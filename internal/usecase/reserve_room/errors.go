package reserve_room

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

var (
	// ErrRoomNotFound возвращается, когда у комнаты нет текущей версии
	ErrRoomNotFound = fmt.Errorf("%w: reserve_room: room not found", domain.ErrNotFound)

	// ErrRoomUnavailable возвращается, когда комната на обслуживании или закрыта
	ErrRoomUnavailable = fmt.Errorf("%w: reserve_room: room is not available for reservations", domain.ErrValidation)

	// ErrWindowInPast возвращается, когда начало бронирования уже прошло
	ErrWindowInPast = fmt.Errorf("%w: reserve_room: reservation cannot start in the past", domain.ErrValidation)

	// ErrDuplicateReservation возвращается, когда у дела и бальзамировщика уже есть активное бронирование комнаты
	ErrDuplicateReservation = fmt.Errorf("%w: reserve_room: active reservation for this case and embalmer already exists", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: reserve_room: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_room: internal error")
)
