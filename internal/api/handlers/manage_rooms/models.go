package manage_rooms

import "github.com/m04kA/SMC-PrepRoomService/internal/service/rooms/models"

// CreateRoomRequest HTTP request model
// funeralHomeId берется из пути
type CreateRoomRequest struct {
	RoomNumber string `json:"roomNumber"`
	Capacity   int    `json:"capacity"`
	Status     string `json:"status,omitempty"`
}

// UpdateRoomRequest HTTP request model
type UpdateRoomRequest struct {
	Capacity *int    `json:"capacity,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateRoomRequest) ToServiceRequest(funeralHomeID string) *models.CreateRoomRequest {
	return &models.CreateRoomRequest{
		FuneralHomeID: funeralHomeID,
		RoomNumber:    r.RoomNumber,
		Capacity:      r.Capacity,
		Status:        r.Status,
	}
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateRoomRequest) ToServiceRequest() *models.UpdateRoomRequest {
	return &models.UpdateRoomRequest{
		Capacity: r.Capacity,
		Status:   r.Status,
	}
}
