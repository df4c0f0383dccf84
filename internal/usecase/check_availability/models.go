package check_availability

import "time"

// Request модель запроса на поиск свободных слотов
type Request struct {
	FuneralHomeID   string     // ID похоронного дома
	DurationMinutes int        // Требуемая длительность, минуты
	Priority        string     // normal | urgent, по умолчанию normal
	SearchFrom      *time.Time // Начало окна поиска (опционально, по умолчанию сейчас)
	SearchTo        *time.Time // Конец окна поиска (опционально, по умолчанию горизонт)
	Limit           int        // Максимум слотов (опционально)
}

// Response модель ответа со списком слотов
type Response struct {
	FuneralHomeID   string
	DurationMinutes int
	Priority        string
	Slots           []Slot
}

// Slot свободный интервал в комнате
type Slot struct {
	RoomID     string
	RoomNumber string
	Start      time.Time
	End        time.Time
}
