package override_conflict

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-PrepRoomService/internal/api/handlers"
	"github.com/m04kA/SMC-PrepRoomService/internal/api/middleware"
	overrideConflict "github.com/m04kA/SMC-PrepRoomService/internal/usecase/override_conflict"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingJustification = "обоснование обязательно"
	msgSelfApproval         = "менеджер не может подтверждать override собственного бронирования"
	msgRoomNotFound         = "препараторская не найдена"
	msgRoomUnavailable      = "препараторская закрыта или на обслуживании"
	msgWindowInPast         = "бронирование не может начинаться в прошлом"
)

type Handler struct {
	useCase OverrideConflictUseCase
	logger  Logger
}

func NewHandler(useCase OverrideConflictUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/override
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	approverID, _ := middleware.GetUserID(r.Context())

	var req OverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/override - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(approverID))
	if err != nil {
		switch {
		case errors.Is(err, overrideConflict.ErrMissingJustification):
			h.logger.Warn("POST /reservations/override - Missing justification: approver=%s", approverID)
			handlers.RespondBadRequest(w, msgMissingJustification)

		case errors.Is(err, overrideConflict.ErrSelfApproval):
			h.logger.Warn("POST /reservations/override - Self approval: approver=%s", approverID)
			handlers.RespondForbidden(w, msgSelfApproval)

		case errors.Is(err, overrideConflict.ErrRoomNotFound):
			h.logger.Warn("POST /reservations/override - Room not found: room_id=%s", req.RoomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		case errors.Is(err, overrideConflict.ErrRoomUnavailable):
			h.logger.Warn("POST /reservations/override - Room unavailable: room_id=%s", req.RoomID)
			handlers.RespondBadRequest(w, msgRoomUnavailable)

		case errors.Is(err, overrideConflict.ErrWindowInPast):
			h.logger.Warn("POST /reservations/override - Window in past: room_id=%s", req.RoomID)
			handlers.RespondBadRequest(w, msgWindowInPast)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /reservations/override - Rejected: room_id=%s, error=%v", req.RoomID, err)

		default:
			h.logger.Error("POST /reservations/override - Failed: room_id=%s, approver=%s, error=%v", req.RoomID, approverID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/override - Override created: reservation_id=%s, approver=%s, overridden=%d",
		result.ReservationID, approverID, len(result.OverriddenReservationIDs))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
