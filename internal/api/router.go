package api

import (
	"net/http"

	"github.com/gorilla/mux"

	autoReleaseHandler "github.com/m04kA/SMC-PrepRoomService/internal/api/handlers/auto_release"
	cancelReservationHandler "github.com/m04kA/SMC-PrepRoomService/internal/api/handlers/cancel_reservation"
	checkAvailabilityHandler "github.com/m04kA/SMC-PrepRoomService/internal/api/handlers/check_availability"
	checkInHandler "github.com/m04kA/SMC-PrepRoomService/internal/api/handlers/check_in"
	checkOutHandler "github.com/m04kA/SMC-PrepRoomService/internal/api/handlers/check_out"
	confirmReservationHandler "github.com/m04kA/SMC-PrepRoomService/internal/api/handlers/confirm_reservation"
	getReservationHandler "github.com/m04kA/SMC-PrepRoomService/internal/api/handlers/get_reservation"
	listScheduleHandler "github.com/m04kA/SMC-PrepRoomService/internal/api/handlers/list_schedule"
	manageRoomsHandler "github.com/m04kA/SMC-PrepRoomService/internal/api/handlers/manage_rooms"
	overrideConflictHandler "github.com/m04kA/SMC-PrepRoomService/internal/api/handlers/override_conflict"
	reserveRoomHandler "github.com/m04kA/SMC-PrepRoomService/internal/api/handlers/reserve_room"
	"github.com/m04kA/SMC-PrepRoomService/internal/api/middleware"
)

// Handlers обработчики всех маршрутов API
type Handlers struct {
	ReserveRoom        *reserveRoomHandler.Handler
	OverrideConflict   *overrideConflictHandler.Handler
	CheckAvailability  *checkAvailabilityHandler.Handler
	ListSchedule       *listScheduleHandler.Handler
	ConfirmReservation *confirmReservationHandler.Handler
	CheckIn            *checkInHandler.Handler
	CheckOut           *checkOutHandler.Handler
	CancelReservation  *cancelReservationHandler.Handler
	GetReservation     *getReservationHandler.Handler
	ManageRooms        *manageRoomsHandler.Handler
	AutoRelease        *autoReleaseHandler.Handler // nil, если auto-release выключен
}

// Options необязательные части роутера
type Options struct {
	Metrics        middleware.HTTPMetrics
	MetricsPath    string
	MetricsHandler http.Handler
	RateLimiter    *middleware.ClientRateLimiter
}

// NewRouter собирает роутер сервиса
func NewRouter(h Handlers, opts Options) *mux.Router {
	r := mux.NewRouter()

	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.Metrics))
	}

	// Metrics endpoint (без аутентификации)
	if opts.MetricsHandler != nil {
		r.Handle(opts.MetricsPath, opts.MetricsHandler).Methods(http.MethodGet)
	}

	// Служебные маршруты: тот же X-User-ID и лимит запросов, что и у API
	if h.AutoRelease != nil {
		internal := r.PathPrefix("/internal").Subrouter()
		if opts.RateLimiter != nil {
			internal.Use(opts.RateLimiter.Middleware)
		}
		internal.Use(middleware.Auth)
		internal.HandleFunc("/auto-release", h.AutoRelease.Handle).Methods(http.MethodPost)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	if opts.RateLimiter != nil {
		api.Use(opts.RateLimiter.Middleware)
	}

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Препараторские ---
	protected.HandleFunc("/funeral-homes/{funeralHomeId}/rooms", h.ManageRooms.Create).Methods(http.MethodPost)
	protected.HandleFunc("/funeral-homes/{funeralHomeId}/rooms", h.ManageRooms.List).Methods(http.MethodGet)
	protected.HandleFunc("/rooms/{roomId}", h.ManageRooms.Get).Methods(http.MethodGet)
	protected.HandleFunc("/rooms/{roomId}", h.ManageRooms.Update).Methods(http.MethodPatch)
	protected.HandleFunc("/rooms/{roomId}/history", h.ManageRooms.History).Methods(http.MethodGet)

	// --- Поиск слотов и отчет о загрузке ---
	protected.HandleFunc("/funeral-homes/{funeralHomeId}/availability", h.CheckAvailability.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/funeral-homes/{funeralHomeId}/utilization", h.ListSchedule.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	protected.HandleFunc("/reservations", h.ReserveRoom.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/override", h.OverrideConflict.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", h.GetReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/history", h.GetReservation.HandleHistory).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/confirm", h.ConfirmReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/check-in", h.CheckIn.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/check-out", h.CheckOut.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/cancel", h.CancelReservation.Handle).Methods(http.MethodPost)

	return r
}
