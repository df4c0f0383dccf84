package override_conflict

import "time"

// Request модель запроса на принудительное бронирование менеджером
type Request struct {
	RoomID        string
	CaseID        string
	EmbalmerID    string
	FamilyID      string
	ReservedFrom  time.Time
	ReservedTo    time.Time
	ApproverID    string  // Менеджер, принимающий решение
	Justification string  // Обоснование нарушения вместимости
	Notes         *string // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ReservationID string
	RoomID        string
	Status        string
	Priority      string
	ApprovedBy    string
	Notes         string
	ReservedFrom  time.Time
	ReservedTo    time.Time
	CreatedAt     time.Time

	// OverriddenReservationIDs бронирования, с которыми конфликтует созданное
	OverriddenReservationIDs []string
}
