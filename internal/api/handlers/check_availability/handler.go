package check_availability

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PrepRoomService/internal/api/handlers"
	checkAvailability "github.com/m04kA/SMC-PrepRoomService/internal/usecase/check_availability"
)

const (
	msgMissingDuration = "durationMinutes обязателен"
	msgInvalidDuration = "некорректный durationMinutes"
	msgInvalidLimit    = "некорректный limit"
	msgInvalidTime     = "некорректный формат времени, ожидается RFC3339"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/funeral-homes/{funeralHomeId}/availability
// Query params: durationMinutes (required), priority, from, to (RFC3339), limit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	funeralHomeID := mux.Vars(r)["funeralHomeId"]
	query := r.URL.Query()

	durationStr := query.Get("durationMinutes")
	if durationStr == "" {
		h.logger.Warn("GET /funeral-homes/{id}/availability - Missing duration")
		handlers.RespondBadRequest(w, msgMissingDuration)
		return
	}
	duration, err := strconv.Atoi(durationStr)
	if err != nil {
		h.logger.Warn("GET /funeral-homes/{id}/availability - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	limit := 0
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err = strconv.Atoi(limitStr); err != nil {
			h.logger.Warn("GET /funeral-homes/{id}/availability - Invalid limit: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
	}

	from, err := handlers.ParseTimeParam(r, "from")
	if err != nil {
		h.logger.Warn("GET /funeral-homes/{id}/availability - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}
	to, err := handlers.ParseTimeParam(r, "to")
	if err != nil {
		h.logger.Warn("GET /funeral-homes/{id}/availability - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkAvailability.Request{
		FuneralHomeID:   funeralHomeID,
		DurationMinutes: duration,
		Priority:        query.Get("priority"),
		SearchFrom:      from,
		SearchTo:        to,
		Limit:           limit,
	})
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /funeral-homes/{id}/availability - Rejected: funeral_home_id=%s, error=%v", funeralHomeID, err)
			return
		}
		h.logger.Error("GET /funeral-homes/{id}/availability - Failed: funeral_home_id=%s, error=%v", funeralHomeID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /funeral-homes/{id}/availability - Slots found: funeral_home_id=%s, duration=%d, slots_count=%d",
		funeralHomeID, duration, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
