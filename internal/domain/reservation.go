package domain

import (
	"fmt"
	"strings"
	"time"
)

// ReservationStatus статус бронирования препараторской
type ReservationStatus string

const (
	StatusPending      ReservationStatus = "pending"
	StatusConfirmed    ReservationStatus = "confirmed"
	StatusInProgress   ReservationStatus = "in_progress"
	StatusCompleted    ReservationStatus = "completed"
	StatusAutoReleased ReservationStatus = "auto_released"
	StatusCancelled    ReservationStatus = "cancelled"
)

// IsValid проверяет, что статус известен
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusAutoReleased, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal возвращает true для статусов без исходящих переходов
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusAutoReleased || s == StatusCancelled
}

// IsAwaitingCheckIn возвращает true для pending/confirmed
func (s ReservationStatus) IsAwaitingCheckIn() bool {
	return s == StatusPending || s == StatusConfirmed
}

// transitions допустимые переходы. Переходов назад нет
var transitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:    {StatusConfirmed, StatusInProgress, StatusAutoReleased, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusAutoReleased, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

// CanTransition проверяет, разрешен ли переход from -> to
func CanTransition(from, to ReservationStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Priority приоритет бронирования
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityUrgent Priority = "urgent"
)

// IsValid проверяет, что приоритет известен
func (p Priority) IsValid() bool {
	return p == PriorityNormal || p == PriorityUrgent
}

// Reservation бронирование станции в препараторской
// ID стабилен для всех версий бронирования; каждое изменение статуса - новая версия
type Reservation struct {
	ID            string
	RoomID        string
	FuneralHomeID string // денормализовано из комнаты для выборок по похоронному дому
	CaseID        string
	EmbalmerID    string
	FamilyID      string
	Status        ReservationStatus
	Priority      Priority

	ReservedFrom time.Time
	ReservedTo   time.Time

	CheckedInAt           *time.Time
	CheckedOutAt          *time.Time
	ActualDurationMinutes *int
	Notes                 *string

	// ApprovedBy менеджер, подтвердивший override конфликта
	ApprovedBy *string

	// CreatedAt момент создания первой версии, переносится во все версии
	CreatedAt time.Time

	Versioning
}

// BusinessKey натуральный ключ бронирования: комната + дело + бальзамировщик
func (r *Reservation) BusinessKey() string {
	return strings.Join([]string{r.RoomID, r.CaseID, r.EmbalmerID}, "|")
}

// Window запланированный интервал бронирования
func (r *Reservation) Window() TimeWindow {
	return TimeWindow{Start: r.ReservedFrom, End: r.ReservedTo}
}

// IsActive возвращает true, если бронирование занимает станцию
func (r *Reservation) IsActive() bool {
	return !r.Status.IsTerminal()
}

// IsAwaitingCheckIn возвращает true, если бронирование ожидает заселения
func (r *Reservation) IsAwaitingCheckIn() bool {
	return r.Status.IsAwaitingCheckIn() && r.CheckedInAt == nil
}

// IsOverride возвращает true, если бронирование создано через override менеджера
func (r *Reservation) IsOverride() bool {
	return r.ApprovedBy != nil && *r.ApprovedBy != ""
}

// IsAssignedTo проверяет, что бронирование закреплено за бальзамировщиком
func (r *Reservation) IsAssignedTo(embalmerID string) bool {
	return r.EmbalmerID == embalmerID
}

// AppendNote дописывает строку к заметкам
func (r *Reservation) AppendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if r.Notes == nil || *r.Notes == "" {
		r.Notes = &note
		return
	}
	joined := *r.Notes + "\n" + note
	r.Notes = &joined
}

// Clone возвращает независимую копию
func (r *Reservation) Clone() *Reservation {
	c := *r
	c.CheckedInAt = cloneTime(r.CheckedInAt)
	c.CheckedOutAt = cloneTime(r.CheckedOutAt)
	c.ValidTo = cloneTime(r.ValidTo)
	if r.ActualDurationMinutes != nil {
		v := *r.ActualDurationMinutes
		c.ActualDurationMinutes = &v
	}
	if r.Notes != nil {
		v := *r.Notes
		c.Notes = &v
	}
	if r.ApprovedBy != nil {
		v := *r.ApprovedBy
		c.ApprovedBy = &v
	}
	return &c
}

// Transition возвращает следующую версию бронирования в статусе to, действующую с момента at
// Исходная версия не изменяется
func (r *Reservation) Transition(to ReservationStatus, at time.Time) (*Reservation, error) {
	if !CanTransition(r.Status, to) {
		return nil, fmt.Errorf("%w: reservation %s cannot move from %s to %s", ErrInvalidTransition, r.ID, r.Status, to)
	}

	next := r.Clone()
	next.Status = to
	next.Versioning = r.Versioning.next(at)
	return next, nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
