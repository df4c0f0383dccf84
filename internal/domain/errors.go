package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Закрытый набор видов ошибок движка бронирования
// Ошибки слоев оборачивают один из них, вызывающий код различает их через errors.Is
var (
	// ErrValidation некорректные входные данные (длительность, обязательные поля)
	ErrValidation = errors.New("validation error")

	// ErrConflict интервал пересекается с активными бронированиями
	ErrConflict = errors.New("reservation conflict")

	// ErrNotFound комната или бронирование не найдены среди текущих версий
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied операция выполняется не назначенным бальзамировщиком
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidTransition переход статуса не разрешен машиной состояний
	ErrInvalidTransition = errors.New("invalid state transition")
)

// ConflictError конфликт с перечнем мешающих бронирований и предложенными альтернативами
type ConflictError struct {
	RoomID      string
	Window      TimeWindow
	Collisions  []Collision
	Suggestions []Slot
}

func (e *ConflictError) Error() string {
	ids := make([]string, 0, len(e.Collisions))
	for _, c := range e.Collisions {
		ids = append(ids, c.ReservationID)
	}
	return fmt.Sprintf("%s: room %s [%s, %s) collides with [%s]",
		ErrConflict, e.RoomID,
		e.Window.Start.Format("2006-01-02T15:04"), e.Window.End.Format("2006-01-02T15:04"),
		strings.Join(ids, ", "))
}

// Unwrap позволяет errors.Is(err, ErrConflict)
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
