package auto_release

import (
	"net/http"

	"github.com/m04kA/SMC-PrepRoomService/internal/api/handlers"
)

// SweepResponse HTTP response model
type SweepResponse struct {
	Released int    `json:"released"`
	Error    string `json:"error,omitempty"`
}

type Handler struct {
	sweeper Sweeper
	logger  Logger
}

func NewHandler(sweeper Sweeper, logger Logger) *Handler {
	return &Handler{
		sweeper: sweeper,
		logger:  logger,
	}
}

// Handle POST /internal/auto-release
// Запускает один проход auto-release вне расписания
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	released, err := h.sweeper.Sweep(r.Context())
	if err != nil {
		h.logger.Error("POST /internal/auto-release - Sweep finished with errors: released=%d, error=%v", released, err)
		handlers.RespondJSON(w, http.StatusInternalServerError, SweepResponse{Released: released, Error: err.Error()})
		return
	}

	h.logger.Info("POST /internal/auto-release - Sweep done: released=%d", released)
	handlers.RespondJSON(w, http.StatusOK, SweepResponse{Released: released})
}
