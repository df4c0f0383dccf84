package list_schedule

import "time"

// Granularity шаг агрегации отчета
type Granularity string

const (
	GranularityDaily  Granularity = "daily"
	GranularityWeekly Granularity = "weekly"
)

// Request модель запроса отчета о загрузке
type Request struct {
	FuneralHomeID string
	From          time.Time   // Первый день диапазона (включительно)
	To            time.Time   // Последний день диапазона (включительно)
	Granularity   Granularity // daily | weekly, по умолчанию daily
}

// Response модель ответа с загрузкой по комнатам
type Response struct {
	FuneralHomeID string
	From          time.Time
	To            time.Time // Конец диапазона (исключительно)
	Granularity   Granularity
	Rooms         []RoomUtilization
}

// RoomUtilization загрузка одной комнаты
type RoomUtilization struct {
	RoomID     string
	RoomNumber string
	Capacity   int
	Buckets    []Bucket
	Total      Bucket // Итог за весь диапазон
}

// Bucket загрузка за один период
type Bucket struct {
	Start              time.Time
	End                time.Time
	ScheduledMinutes   int
	AvailableMinutes   int
	UtilizationPercent float64
	StatusCounts       map[string]int // Количество бронирований по статусам, начавшихся в периоде
}
