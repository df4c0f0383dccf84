package confirm_reservation

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PrepRoomService/internal/api/handlers"
	"github.com/m04kA/SMC-PrepRoomService/internal/api/middleware"
	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/reservations"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/reservations/models"
)

const (
	msgNotFound    = "бронирование не найдено"
	msgForbidden   = "бронирование назначено другому бальзамировщику"
	msgInvalidMove = "бронирование нельзя подтвердить в текущем статусе"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/confirm
// Бальзамировщик из X-User-ID подтверждает удержание
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID := mux.Vars(r)["reservationId"]
	embalmerID, _ := middleware.GetUserID(r.Context())

	result, err := h.service.Confirm(r.Context(), reservationID, &models.ActorRequest{EmbalmerID: embalmerID})
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/confirm - Reservation not found: reservation_id=%s", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrNotAssigned):
			h.logger.Warn("POST /reservations/{id}/confirm - Not assigned: reservation_id=%s, embalmer_id=%s", reservationID, embalmerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidTransition):
			h.logger.Warn("POST /reservations/{id}/confirm - Invalid transition: reservation_id=%s, error=%v", reservationID, err)
			handlers.RespondError(w, http.StatusConflict, msgInvalidMove)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /reservations/{id}/confirm - Rejected: reservation_id=%s, error=%v", reservationID, err)

		default:
			h.logger.Error("POST /reservations/{id}/confirm - Failed: reservation_id=%s, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/confirm - Done: reservation_id=%s, embalmer_id=%s, status=%s",
		reservationID, embalmerID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
