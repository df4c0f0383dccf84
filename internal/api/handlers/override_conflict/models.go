package override_conflict

import (
	"time"

	overrideConflict "github.com/m04kA/SMC-PrepRoomService/internal/usecase/override_conflict"
)

// OverrideRequest HTTP request model
// Менеджер берется из заголовка X-User-ID
type OverrideRequest struct {
	RoomID        string    `json:"roomId"`
	CaseID        string    `json:"caseId"`
	EmbalmerID    string    `json:"embalmerId"`
	FamilyID      string    `json:"familyId"`
	ReservedFrom  time.Time `json:"reservedFrom"`
	ReservedTo    time.Time `json:"reservedTo"`
	Justification string    `json:"justification"`
	Notes         *string   `json:"notes,omitempty"`
}

// OverrideResponse HTTP response model
type OverrideResponse struct {
	ReservationID            string    `json:"reservationId"`
	RoomID                   string    `json:"roomId"`
	Status                   string    `json:"status"`
	Priority                 string    `json:"priority"`
	ApprovedBy               string    `json:"approvedBy"`
	Notes                    string    `json:"notes"`
	ReservedFrom             time.Time `json:"reservedFrom"`
	ReservedTo               time.Time `json:"reservedTo"`
	CreatedAt                time.Time `json:"createdAt"`
	OverriddenReservationIDs []string  `json:"overriddenReservationIds"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *OverrideRequest) ToUseCaseRequest(approverID string) *overrideConflict.Request {
	return &overrideConflict.Request{
		RoomID:        r.RoomID,
		CaseID:        r.CaseID,
		EmbalmerID:    r.EmbalmerID,
		FamilyID:      r.FamilyID,
		ReservedFrom:  r.ReservedFrom.UTC(),
		ReservedTo:    r.ReservedTo.UTC(),
		ApproverID:    approverID,
		Justification: r.Justification,
		Notes:         r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *overrideConflict.Response) *OverrideResponse {
	overridden := resp.OverriddenReservationIDs
	if overridden == nil {
		overridden = []string{}
	}
	return &OverrideResponse{
		ReservationID:            resp.ReservationID,
		RoomID:                   resp.RoomID,
		Status:                   resp.Status,
		Priority:                 resp.Priority,
		ApprovedBy:               resp.ApprovedBy,
		Notes:                    resp.Notes,
		ReservedFrom:             resp.ReservedFrom,
		ReservedTo:               resp.ReservedTo,
		CreatedAt:                resp.CreatedAt,
		OverriddenReservationIDs: overridden,
	}
}
