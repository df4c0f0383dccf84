package reserve_room

import (
	"time"

	reserveRoom "github.com/m04kA/SMC-PrepRoomService/internal/usecase/reserve_room"
)

// ReserveRoomRequest HTTP request model
type ReserveRoomRequest struct {
	RoomID       string    `json:"roomId"`
	CaseID       string    `json:"caseId"`
	EmbalmerID   string    `json:"embalmerId"`
	FamilyID     string    `json:"familyId"`
	ReservedFrom time.Time `json:"reservedFrom"` // RFC3339
	ReservedTo   time.Time `json:"reservedTo"`   // RFC3339
	Priority     string    `json:"priority,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ReservationID string    `json:"reservationId"`
	RoomID        string    `json:"roomId"`
	Status        string    `json:"status"`
	Priority      string    `json:"priority"`
	ReservedFrom  time.Time `json:"reservedFrom"`
	ReservedTo    time.Time `json:"reservedTo"`
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReserveRoomRequest) ToUseCaseRequest() *reserveRoom.Request {
	return &reserveRoom.Request{
		RoomID:       r.RoomID,
		CaseID:       r.CaseID,
		EmbalmerID:   r.EmbalmerID,
		FamilyID:     r.FamilyID,
		ReservedFrom: r.ReservedFrom.UTC(),
		ReservedTo:   r.ReservedTo.UTC(),
		Priority:     r.Priority,
		Notes:        r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveRoom.Response) *ReservationResponse {
	return &ReservationResponse{
		ReservationID: resp.ReservationID,
		RoomID:        resp.RoomID,
		Status:        resp.Status,
		Priority:      resp.Priority,
		ReservedFrom:  resp.ReservedFrom,
		ReservedTo:    resp.ReservedTo,
		Version:       resp.Version,
		CreatedAt:     resp.CreatedAt,
	}
}
