package check_availability

import (
	"time"

	checkAvailability "github.com/m04kA/SMC-PrepRoomService/internal/usecase/check_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	FuneralHomeID   string         `json:"funeralHomeId"`
	DurationMinutes int            `json:"durationMinutes"`
	Priority        string         `json:"priority"`
	Slots           []SlotResponse `json:"slots"`
}

// SlotResponse свободный интервал
type SlotResponse struct {
	RoomID     string    `json:"roomId"`
	RoomNumber string    `json:"roomNumber"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		FuneralHomeID:   resp.FuneralHomeID,
		DurationMinutes: resp.DurationMinutes,
		Priority:        resp.Priority,
		Slots:           make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			RoomID:     s.RoomID,
			RoomNumber: s.RoomNumber,
			Start:      s.Start,
			End:        s.End,
		})
	}
	return out
}
