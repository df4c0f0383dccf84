package models

import (
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

// Request модели

// CreateRoomRequest запрос на регистрацию препараторской
type CreateRoomRequest struct {
	FuneralHomeID string `json:"funeralHomeId"`
	RoomNumber    string `json:"roomNumber"`
	Capacity      int    `json:"capacity"`         // 1 или 2 станции
	Status        string `json:"status,omitempty"` // по умолчанию available
}

// UpdateRoomRequest изменение комнаты, создает новую версию
// Все поля опциональны - обновляются только переданные значения
type UpdateRoomRequest struct {
	Capacity *int    `json:"capacity,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// Response модели

// RoomResponse ответ с данными версии комнаты
type RoomResponse struct {
	ID            string     `json:"id"`
	FuneralHomeID string     `json:"funeralHomeId"`
	RoomNumber    string     `json:"roomNumber"`
	Capacity      int        `json:"capacity"`
	Status        string     `json:"status"`
	Version       int        `json:"version"`
	ValidFrom     time.Time  `json:"validFrom"`
	ValidTo       *time.Time `json:"validTo,omitempty"`
	IsCurrent     bool       `json:"isCurrent"`
}

// RoomListResponse ответ со списком комнат
type RoomListResponse struct {
	Rooms []RoomResponse `json:"rooms"`
}

// Методы конвертации

// FromDomainRoom конвертирует domain модель в DTO
func FromDomainRoom(r *domain.Room) *RoomResponse {
	if r == nil {
		return nil
	}

	return &RoomResponse{
		ID:            r.ID,
		FuneralHomeID: r.FuneralHomeID,
		RoomNumber:    r.RoomNumber,
		Capacity:      r.Capacity,
		Status:        string(r.Status),
		Version:       r.Version,
		ValidFrom:     r.ValidFrom,
		ValidTo:       r.ValidTo,
		IsCurrent:     r.IsCurrent,
	}
}

// FromDomainRoomList конвертирует список domain моделей в DTO
func FromDomainRoomList(rooms []*domain.Room) *RoomListResponse {
	resp := &RoomListResponse{
		Rooms: make([]RoomResponse, 0, len(rooms)),
	}
	for _, r := range rooms {
		resp.Rooms = append(resp.Rooms, *FromDomainRoom(r))
	}
	return resp
}

// ToDomainRoomStatus конвертирует строку в domain.RoomStatus с валидацией
func ToDomainRoomStatus(status string) (domain.RoomStatus, bool) {
	s := domain.RoomStatus(status)
	return s, s.IsValid()
}
