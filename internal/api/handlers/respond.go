package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

const (
	msgInternalError = "внутренняя ошибка сервера"
	msgConflict      = "интервал пересекается с активными бронированиями"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConflictResponse тело ответа 409 для конфликта бронирования
type ConflictResponse struct {
	Error       string              `json:"error"`
	RoomID      string              `json:"roomId"`
	Collisions  []CollisionResponse `json:"collisions"`
	Suggestions []SlotResponse      `json:"suggestions"`
}

// CollisionResponse мешающее бронирование
type CollisionResponse struct {
	ReservationID string    `json:"reservationId"`
	RoomID        string    `json:"roomId"`
	Status        string    `json:"status"`
	Priority      string    `json:"priority"`
	ReservedFrom  time.Time `json:"reservedFrom"`
	ReservedTo    time.Time `json:"reservedTo"`
}

// SlotResponse свободный интервал
type SlotResponse struct {
	RoomID     string    `json:"roomId"`
	RoomNumber string    `json:"roomNumber"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

// DecodeJSON декодирует тело запроса, отклоняя неизвестные поля
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// RespondError отправляет ответ с ошибкой
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondBadRequest 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondUnauthorized 401
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

// RespondForbidden 403
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

// RespondNotFound 404
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondInternalError 500
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondConflict 409 с перечнем коллизий и альтернативных слотов
func RespondConflict(w http.ResponseWriter, conflict *domain.ConflictError) {
	resp := ConflictResponse{
		Error:       msgConflict,
		RoomID:      conflict.RoomID,
		Collisions:  make([]CollisionResponse, 0, len(conflict.Collisions)),
		Suggestions: FromDomainSlots(conflict.Suggestions),
	}
	for _, c := range conflict.Collisions {
		resp.Collisions = append(resp.Collisions, CollisionResponse{
			ReservationID: c.ReservationID,
			RoomID:        c.RoomID,
			Status:        string(c.Status),
			Priority:      string(c.Priority),
			ReservedFrom:  c.ReservedFrom,
			ReservedTo:    c.ReservedTo,
		})
	}
	RespondJSON(w, http.StatusConflict, resp)
}

// RespondDomainError отображает ошибку из закрытого набора domain в HTTP статус
// Возвращает false для ошибок вне набора, их обрабатывает вызывающий код
func RespondDomainError(w http.ResponseWriter, err error) bool {
	var conflict *domain.ConflictError
	switch {
	case errors.As(err, &conflict):
		RespondConflict(w, conflict)
	case errors.Is(err, domain.ErrValidation):
		RespondBadRequest(w, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		RespondNotFound(w, err.Error())
	case errors.Is(err, domain.ErrPermissionDenied):
		RespondForbidden(w, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrConflict):
		RespondError(w, http.StatusConflict, err.Error())
	default:
		return false
	}
	return true
}

// FromDomainSlots конвертирует слоты в DTO
func FromDomainSlots(slots []domain.Slot) []SlotResponse {
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotResponse{
			RoomID:     s.RoomID,
			RoomNumber: s.RoomNumber,
			Start:      s.Start,
			End:        s.End,
		})
	}
	return out
}

// ParseTimeParam разбирает необязательный query параметр в формате RFC3339
func ParseTimeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	t = t.UTC()
	return &t, nil
}
