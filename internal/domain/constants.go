package domain

// Значения по умолчанию для политики планирования
const (
	DefaultBufferMinutes        = 30
	DefaultSlotStepMinutes      = 15
	DefaultSearchHorizonDays    = 14
	DefaultMaxSlots             = 10
	DefaultUrgentWindowMinutes  = 120
	DefaultGracePeriodMinutes   = 30
	DefaultSweepIntervalSeconds = 300
)

// Бизнес-ограничения
const (
	MinReservationMinutes  = 120 // 2 часа
	MaxReservationMinutes  = 480 // 8 часов
	MinRoomCapacity        = 1
	MaxRoomCapacity        = 2
	MaxNotesLength         = 1000
	MaxJustificationLength = 1000
)

// Форматы времени
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []ReservationStatus{
	StatusCompleted,
	StatusAutoReleased,
	StatusCancelled,
}

// ActiveStatuses статусы бронирований, которые занимают станцию
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// AwaitingCheckInStatuses статусы ожидания заселения
// Используется auto-release для поиска просроченных удержаний
var AwaitingCheckInStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}
