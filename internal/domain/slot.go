package domain

import "time"

// Slot свободный интервал в конкретной комнате
type Slot struct {
	RoomID     string
	RoomNumber string
	Start      time.Time
	End        time.Time
}

// Collision бронирование, мешающее запрошенному интервалу
type Collision struct {
	ReservationID string
	RoomID        string
	Status        ReservationStatus
	Priority      Priority
	ReservedFrom  time.Time
	ReservedTo    time.Time
}

// NewCollision формирует описание коллизии из бронирования
func NewCollision(r *Reservation) Collision {
	return Collision{
		ReservationID: r.ID,
		RoomID:        r.RoomID,
		Status:        r.Status,
		Priority:      r.Priority,
		ReservedFrom:  r.ReservedFrom,
		ReservedTo:    r.ReservedTo,
	}
}
