package domain

import (
	"fmt"
	"time"
)

// RoomStatus статус препараторской
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusMaintenance RoomStatus = "maintenance"
	RoomStatusClosed      RoomStatus = "closed"
)

// IsValid проверяет, что статус известен
func (s RoomStatus) IsValid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusMaintenance, RoomStatusClosed:
		return true
	default:
		return false
	}
}

// Room препараторская с 1 или 2 станциями бальзамирования
// ID - стабильный бизнес-ключ (funeralHomeID:roomNumber), общий для всех версий
type Room struct {
	ID            string
	FuneralHomeID string
	RoomNumber    string
	Capacity      int
	Status        RoomStatus

	Versioning
}

// RoomKey формирует бизнес-ключ комнаты
func RoomKey(funeralHomeID, roomNumber string) string {
	return fmt.Sprintf("%s:%s", funeralHomeID, roomNumber)
}

// IsValidCapacity проверяет количество станций
func IsValidCapacity(capacity int) bool {
	return capacity >= MinRoomCapacity && capacity <= MaxRoomCapacity
}

// IsBookable возвращает true, если в комнате можно создавать бронирования
func (r *Room) IsBookable() bool {
	return r.Status == RoomStatusAvailable
}

// Clone возвращает независимую копию
func (r *Room) Clone() *Room {
	c := *r
	if r.ValidTo != nil {
		validTo := *r.ValidTo
		c.ValidTo = &validTo
	}
	return &c
}

// NextVersion копия комнаты как следующая версия, действующая с момента at
func (r *Room) NextVersion(at time.Time) *Room {
	next := r.Clone()
	next.Versioning = r.Versioning.next(at)
	return next
}
