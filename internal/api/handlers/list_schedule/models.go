package list_schedule

import (
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	listSchedule "github.com/m04kA/SMC-PrepRoomService/internal/usecase/list_schedule"
)

// UtilizationResponse HTTP response model
type UtilizationResponse struct {
	FuneralHomeID string                    `json:"funeralHomeId"`
	From          string                    `json:"from"` // YYYY-MM-DD
	To            string                    `json:"to"`   // YYYY-MM-DD, последний день включительно
	Granularity   string                    `json:"granularity"`
	Rooms         []RoomUtilizationResponse `json:"rooms"`
}

// RoomUtilizationResponse загрузка комнаты
type RoomUtilizationResponse struct {
	RoomID     string           `json:"roomId"`
	RoomNumber string           `json:"roomNumber"`
	Capacity   int              `json:"capacity"`
	Buckets    []BucketResponse `json:"buckets"`
	Total      BucketResponse   `json:"total"`
}

// BucketResponse загрузка за период
type BucketResponse struct {
	Start              time.Time      `json:"start"`
	End                time.Time      `json:"end"`
	ScheduledMinutes   int            `json:"scheduledMinutes"`
	AvailableMinutes   int            `json:"availableMinutes"`
	UtilizationPercent float64        `json:"utilizationPercent"`
	StatusCounts       map[string]int `json:"statusCounts"`
}

// ToUseCaseRequest разбирает параметры запроса
func ToUseCaseRequest(funeralHomeID, from, to, granularity string) (*listSchedule.Request, error) {
	fromDate, err := time.Parse(domain.DateFormat, from)
	if err != nil {
		return nil, err
	}
	toDate, err := time.Parse(domain.DateFormat, to)
	if err != nil {
		return nil, err
	}

	return &listSchedule.Request{
		FuneralHomeID: funeralHomeID,
		From:          fromDate,
		To:            toDate,
		Granularity:   listSchedule.Granularity(granularity),
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *listSchedule.Response) *UtilizationResponse {
	out := &UtilizationResponse{
		FuneralHomeID: resp.FuneralHomeID,
		From:          resp.From.Format(domain.DateFormat),
		To:            resp.To.AddDate(0, 0, -1).Format(domain.DateFormat),
		Granularity:   string(resp.Granularity),
		Rooms:         make([]RoomUtilizationResponse, 0, len(resp.Rooms)),
	}

	for _, room := range resp.Rooms {
		ru := RoomUtilizationResponse{
			RoomID:     room.RoomID,
			RoomNumber: room.RoomNumber,
			Capacity:   room.Capacity,
			Buckets:    make([]BucketResponse, 0, len(room.Buckets)),
			Total:      fromBucket(room.Total),
		}
		for _, b := range room.Buckets {
			ru.Buckets = append(ru.Buckets, fromBucket(b))
		}
		out.Rooms = append(out.Rooms, ru)
	}
	return out
}

func fromBucket(b listSchedule.Bucket) BucketResponse {
	return BucketResponse{
		Start:              b.Start,
		End:                b.End,
		ScheduledMinutes:   b.ScheduledMinutes,
		AvailableMinutes:   b.AvailableMinutes,
		UtilizationPercent: b.UtilizationPercent,
		StatusCounts:       b.StatusCounts,
	}
}
