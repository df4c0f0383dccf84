package get_reservation

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PrepRoomService/internal/api/handlers"
	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

const (
	msgNotFound    = "бронирование не найдено"
	msgInvalidTime = "некорректный asOf, ожидается RFC3339"
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

// Handle GET /api/v1/reservations/{reservationId}
// Query params: asOf (RFC3339, опционально) - версия, действовавшая в указанный момент
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID := mux.Vars(r)["reservationId"]

	asOf, err := handlers.ParseTimeParam(r, "asOf")
	if err != nil {
		h.logger.Warn("GET /reservations/{id} - Invalid asOf: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	var result interface{}
	if asOf != nil {
		result, err = h.service.AsOf(r.Context(), reservationID, *asOf)
	} else {
		result, err = h.service.GetByID(r.Context(), reservationID)
	}
	if err != nil {
		h.respondError(w, "GET /reservations/{id}", reservationID, err)
		return
	}

	h.logger.Info("GET /reservations/{id} - Reservation retrieved: reservation_id=%s", reservationID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleHistory GET /api/v1/reservations/{reservationId}/history
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	reservationID := mux.Vars(r)["reservationId"]

	history, err := h.service.History(r.Context(), reservationID)
	if err != nil {
		h.respondError(w, "GET /reservations/{id}/history", reservationID, err)
		return
	}

	h.logger.Info("GET /reservations/{id}/history - History retrieved: reservation_id=%s, versions=%d",
		reservationID, len(history.Versions))
	handlers.RespondJSON(w, http.StatusOK, history)
}

func (h *Handler) respondError(w http.ResponseWriter, route, reservationID string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.logger.Warn("%s - Reservation not found: reservation_id=%s", route, reservationID)
		handlers.RespondNotFound(w, msgNotFound)

	case handlers.RespondDomainError(w, err):
		h.logger.Warn("%s - Rejected: reservation_id=%s, error=%v", route, reservationID, err)

	default:
		h.logger.Error("%s - Failed: reservation_id=%s, error=%v", route, reservationID, err)
		handlers.RespondInternalError(w)
	}
}
