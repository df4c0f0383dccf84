package rooms

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

var (
	// ErrRoomNotFound возвращается, когда у комнаты нет текущей версии
	ErrRoomNotFound = fmt.Errorf("%w: room", domain.ErrNotFound)

	// ErrRoomAlreadyExists возвращается при повторной регистрации комнаты с тем же номером
	ErrRoomAlreadyExists = fmt.Errorf("%w: room already exists", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrConcurrentUpdate возвращается, когда текущую версию изменил конкурентный писатель
	ErrConcurrentUpdate = fmt.Errorf("%w: room was modified concurrently", domain.ErrInvalidTransition)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("rooms: internal error")
)
