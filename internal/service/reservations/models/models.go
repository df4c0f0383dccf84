package models

import (
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

// Request модели

// ActorRequest действие бальзамировщика над своим бронированием (confirm, check-in, check-out)
type ActorRequest struct {
	EmbalmerID string `json:"embalmerId"`
}

// CancelRequest запрос на отмену бронирования
type CancelRequest struct {
	Reason string `json:"reason"`
}

// Response модели

// ReservationResponse ответ с данными версии бронирования
type ReservationResponse struct {
	ID            string `json:"id"`
	RoomID        string `json:"roomId"`
	FuneralHomeID string `json:"funeralHomeId"`
	CaseID        string `json:"caseId"`
	EmbalmerID    string `json:"embalmerId"`
	FamilyID      string `json:"familyId"`
	Status        string `json:"status"`
	Priority      string `json:"priority"`

	ReservedFrom time.Time `json:"reservedFrom"`
	ReservedTo   time.Time `json:"reservedTo"`

	CheckedInAt           *time.Time `json:"checkedInAt,omitempty"`
	CheckedOutAt          *time.Time `json:"checkedOutAt,omitempty"`
	ActualDurationMinutes *int       `json:"actualDurationMinutes,omitempty"`
	Notes                 *string    `json:"notes,omitempty"`
	ApprovedBy            *string    `json:"approvedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`

	// Метаданные версии
	Version   int        `json:"version"`
	ValidFrom time.Time  `json:"validFrom"`
	ValidTo   *time.Time `json:"validTo,omitempty"`
	IsCurrent bool       `json:"isCurrent"`
}

// ReservationHistoryResponse все версии бронирования по возрастанию номера
type ReservationHistoryResponse struct {
	Versions []ReservationResponse `json:"versions"`
}

// CheckInResponse ответ на заселение
type CheckInResponse struct {
	ReservationID string    `json:"reservationId"`
	Status        string    `json:"status"`
	CheckedInAt   time.Time `json:"checkedInAt"`
}

// CheckOutResponse ответ на выселение
type CheckOutResponse struct {
	ReservationID         string    `json:"reservationId"`
	Status                string    `json:"status"`
	CheckedOutAt          time.Time `json:"checkedOutAt"`
	ActualDurationMinutes int       `json:"actualDurationMinutes"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	return &ReservationResponse{
		ID:                    r.ID,
		RoomID:                r.RoomID,
		FuneralHomeID:         r.FuneralHomeID,
		CaseID:                r.CaseID,
		EmbalmerID:            r.EmbalmerID,
		FamilyID:              r.FamilyID,
		Status:                string(r.Status),
		Priority:              string(r.Priority),
		ReservedFrom:          r.ReservedFrom,
		ReservedTo:            r.ReservedTo,
		CheckedInAt:           r.CheckedInAt,
		CheckedOutAt:          r.CheckedOutAt,
		ActualDurationMinutes: r.ActualDurationMinutes,
		Notes:                 r.Notes,
		ApprovedBy:            r.ApprovedBy,
		CreatedAt:             r.CreatedAt,
		Version:               r.Version,
		ValidFrom:             r.ValidFrom,
		ValidTo:               r.ValidTo,
		IsCurrent:             r.IsCurrent,
	}
}

// FromDomainHistory конвертирует список версий в DTO
func FromDomainHistory(versions []*domain.Reservation) *ReservationHistoryResponse {
	resp := &ReservationHistoryResponse{
		Versions: make([]ReservationResponse, 0, len(versions)),
	}
	for _, v := range versions {
		resp.Versions = append(resp.Versions, *FromDomainReservation(v))
	}
	return resp
}
