package reserve_room

import "time"

// Request модель запроса на бронирование станции
type Request struct {
	RoomID       string    // Бизнес-ключ комнаты (funeralHomeId:roomNumber)
	CaseID       string    // ID дела
	EmbalmerID   string    // ID бальзамировщика
	FamilyID     string    // ID семьи
	ReservedFrom time.Time // Начало
	ReservedTo   time.Time // Окончание
	Priority     string    // normal | urgent, по умолчанию normal
	Notes        *string   // Заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ReservationID string
	RoomID        string
	Status        string
	Priority      string
	ReservedFrom  time.Time
	ReservedTo    time.Time
	Version       int
	CreatedAt     time.Time
}
