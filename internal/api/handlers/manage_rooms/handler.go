package manage_rooms

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PrepRoomService/internal/api/handlers"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/rooms"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "препараторская не найдена"
	msgAlreadyExists      = "препараторская с таким номером уже зарегистрирована"
	msgInvalidTime        = "некорректный asOf, ожидается RFC3339"
)

type Handler struct {
	service RoomService
	logger  Logger
}

func NewHandler(service RoomService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/funeral-homes/{funeralHomeId}/rooms
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	funeralHomeID := mux.Vars(r)["funeralHomeId"]

	var req CreateRoomRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /funeral-homes/{id}/rooms - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	room, err := h.service.Create(r.Context(), req.ToServiceRequest(funeralHomeID))
	if err != nil {
		if errors.Is(err, rooms.ErrRoomAlreadyExists) {
			h.logger.Warn("POST /funeral-homes/{id}/rooms - Already exists: funeral_home_id=%s, room=%s", funeralHomeID, req.RoomNumber)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyExists)
			return
		}
		h.respondError(w, "POST /funeral-homes/{id}/rooms", funeralHomeID, err)
		return
	}

	h.logger.Info("POST /funeral-homes/{id}/rooms - Room created: room_id=%s", room.ID)
	handlers.RespondJSON(w, http.StatusCreated, room)
}

// List GET /api/v1/funeral-homes/{funeralHomeId}/rooms
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	funeralHomeID := mux.Vars(r)["funeralHomeId"]

	list, err := h.service.List(r.Context(), funeralHomeID)
	if err != nil {
		h.respondError(w, "GET /funeral-homes/{id}/rooms", funeralHomeID, err)
		return
	}

	h.logger.Info("GET /funeral-homes/{id}/rooms - Rooms listed: funeral_home_id=%s, count=%d", funeralHomeID, len(list.Rooms))
	handlers.RespondJSON(w, http.StatusOK, list)
}

// Get GET /api/v1/rooms/{roomId}
// Query params: asOf (RFC3339, опционально)
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	asOf, err := handlers.ParseTimeParam(r, "asOf")
	if err != nil {
		h.logger.Warn("GET /rooms/{id} - Invalid asOf: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	var room interface{}
	if asOf != nil {
		room, err = h.service.AsOf(r.Context(), roomID, *asOf)
	} else {
		room, err = h.service.GetByID(r.Context(), roomID)
	}
	if err != nil {
		h.respondError(w, "GET /rooms/{id}", roomID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, room)
}

// Update PATCH /api/v1/rooms/{roomId}
// Изменение вместимости или статуса создает новую версию комнаты
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	var req UpdateRoomRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /rooms/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	room, err := h.service.Update(r.Context(), roomID, req.ToServiceRequest())
	if err != nil {
		h.respondError(w, "PATCH /rooms/{id}", roomID, err)
		return
	}

	h.logger.Info("PATCH /rooms/{id} - Room updated: room_id=%s, version=%d", roomID, room.Version)
	handlers.RespondJSON(w, http.StatusOK, room)
}

// History GET /api/v1/rooms/{roomId}/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	history, err := h.service.History(r.Context(), roomID)
	if err != nil {
		h.respondError(w, "GET /rooms/{id}/history", roomID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, history)
}

func (h *Handler) respondError(w http.ResponseWriter, route, id string, err error) {
	switch {
	case errors.Is(err, rooms.ErrRoomNotFound):
		h.logger.Warn("%s - Room not found: id=%s", route, id)
		handlers.RespondNotFound(w, msgNotFound)

	case handlers.RespondDomainError(w, err):
		h.logger.Warn("%s - Rejected: id=%s, error=%v", route, id, err)

	default:
		h.logger.Error("%s - Failed: id=%s, error=%v", route, id, err)
		handlers.RespondInternalError(w)
	}
}
