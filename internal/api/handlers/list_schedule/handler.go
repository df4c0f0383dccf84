package list_schedule

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PrepRoomService/internal/api/handlers"
)

const (
	msgMissingDates = "параметры from и to обязательны"
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	useCase ListScheduleUseCase
	logger  Logger
}

func NewHandler(useCase ListScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/funeral-homes/{funeralHomeId}/utilization
// Query params: from, to (required, YYYY-MM-DD), granularity (daily | weekly)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	funeralHomeID := mux.Vars(r)["funeralHomeId"]
	query := r.URL.Query()

	from, to := query.Get("from"), query.Get("to")
	if from == "" || to == "" {
		h.logger.Warn("GET /funeral-homes/{id}/utilization - Missing dates")
		handlers.RespondBadRequest(w, msgMissingDates)
		return
	}

	useCaseReq, err := ToUseCaseRequest(funeralHomeID, from, to, query.Get("granularity"))
	if err != nil {
		h.logger.Warn("GET /funeral-homes/{id}/utilization - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /funeral-homes/{id}/utilization - Rejected: funeral_home_id=%s, error=%v", funeralHomeID, err)
			return
		}
		h.logger.Error("GET /funeral-homes/{id}/utilization - Failed: funeral_home_id=%s, error=%v", funeralHomeID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /funeral-homes/{id}/utilization - Report built: funeral_home_id=%s, rooms=%d",
		funeralHomeID, len(result.Rooms))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
