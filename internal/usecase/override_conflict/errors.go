package override_conflict

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

var (
	// ErrMissingApprover возвращается без идентификатора менеджера
	ErrMissingApprover = fmt.Errorf("%w: override_conflict: approverId is required", domain.ErrValidation)

	// ErrMissingJustification возвращается без обоснования
	ErrMissingJustification = fmt.Errorf("%w: override_conflict: justification is required", domain.ErrValidation)

	// ErrSelfApproval возвращается, когда менеджер подтверждает override собственного бронирования
	ErrSelfApproval = fmt.Errorf("%w: override_conflict: approver cannot be the embalmer of the reservation", domain.ErrPermissionDenied)

	// ErrRoomNotFound возвращается, когда у комнаты нет текущей версии
	ErrRoomNotFound = fmt.Errorf("%w: override_conflict: room not found", domain.ErrNotFound)

	// ErrRoomUnavailable возвращается, когда комната на обслуживании или закрыта
	ErrRoomUnavailable = fmt.Errorf("%w: override_conflict: room is not available for reservations", domain.ErrValidation)

	// ErrWindowInPast возвращается, когда начало бронирования уже прошло
	ErrWindowInPast = fmt.Errorf("%w: override_conflict: reservation cannot start in the past", domain.ErrValidation)

	// ErrDuplicateReservation возвращается, когда у дела и бальзамировщика уже есть активное бронирование комнаты
	ErrDuplicateReservation = fmt.Errorf("%w: override_conflict: active reservation for this case and embalmer already exists", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: override_conflict: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("override_conflict: internal error")
)
