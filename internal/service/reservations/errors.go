package reservations

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

var (
	// ErrReservationNotFound возвращается, когда у бронирования нет текущей версии
	ErrReservationNotFound = fmt.Errorf("%w: reservation", domain.ErrNotFound)

	// ErrNotAssigned возвращается, когда действие выполняет не назначенный бальзамировщик
	ErrNotAssigned = fmt.Errorf("%w: embalmer is not assigned to the reservation", domain.ErrPermissionDenied)

	// ErrNotExpired возвращается при попытке авто-освобождения до истечения периода ожидания
	ErrNotExpired = fmt.Errorf("%w: grace period has not elapsed", domain.ErrInvalidTransition)

	// ErrConcurrentUpdate возвращается, когда текущую версию изменил конкурентный писатель
	ErrConcurrentUpdate = fmt.Errorf("%w: reservation was modified concurrently", domain.ErrInvalidTransition)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reservations: internal error")
)
