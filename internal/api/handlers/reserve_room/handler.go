package reserve_room

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-PrepRoomService/internal/api/handlers"
	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	reserveRoom "github.com/m04kA/SMC-PrepRoomService/internal/usecase/reserve_room"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgRoomNotFound       = "препараторская не найдена"
	msgRoomUnavailable    = "препараторская закрыта или на обслуживании"
	msgWindowInPast       = "бронирование не может начинаться в прошлом"
)

type Handler struct {
	useCase ReserveRoomUseCase
	logger  Logger
}

func NewHandler(useCase ReserveRoomUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ReserveRoomRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		var conflict *domain.ConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("POST /reservations - Conflict: room_id=%s, collisions=%d, suggestions=%d",
				req.RoomID, len(conflict.Collisions), len(conflict.Suggestions))
			handlers.RespondConflict(w, conflict)

		case errors.Is(err, reserveRoom.ErrRoomNotFound):
			h.logger.Warn("POST /reservations - Room not found: room_id=%s", req.RoomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		case errors.Is(err, reserveRoom.ErrRoomUnavailable):
			h.logger.Warn("POST /reservations - Room unavailable: room_id=%s", req.RoomID)
			handlers.RespondBadRequest(w, msgRoomUnavailable)

		case errors.Is(err, reserveRoom.ErrWindowInPast):
			h.logger.Warn("POST /reservations - Window in past: room_id=%s, from=%s", req.RoomID, req.ReservedFrom)
			handlers.RespondBadRequest(w, msgWindowInPast)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /reservations - Rejected: room_id=%s, error=%v", req.RoomID, err)

		default:
			h.logger.Error("POST /reservations - Failed to reserve: room_id=%s, error=%v", req.RoomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: reservation_id=%s, room_id=%s",
		result.ReservationID, result.RoomID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
