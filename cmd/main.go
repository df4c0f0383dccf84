package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-PrepRoomService/internal/api"
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
	"github.com/m04kA/SMC-PrepRoomService/internal/config"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/availability"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/conflict"
	reservationsService "github.com/m04kA/SMC-PrepRoomService/internal/service/reservations"
	roomsService "github.com/m04kA/SMC-PrepRoomService/internal/service/rooms"
	checkAvailabilityUC "github.com/m04kA/SMC-PrepRoomService/internal/usecase/check_availability"
	listScheduleUC "github.com/m04kA/SMC-PrepRoomService/internal/usecase/list_schedule"
	overrideConflictUC "github.com/m04kA/SMC-PrepRoomService/internal/usecase/override_conflict"
	reserveRoomUC "github.com/m04kA/SMC-PrepRoomService/internal/usecase/reserve_room"
	"github.com/m04kA/SMC-PrepRoomService/internal/worker/autorelease"
	"github.com/m04kA/SMC-PrepRoomService/pkg/clock"
	"github.com/m04kA/SMC-PrepRoomService/pkg/logger"
	"github.com/m04kA/SMC-PrepRoomService/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	configPath := config.Path()
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-PrepRoomService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	store, err := openStorage(cfg, metricsCollector, log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	timeProvider := clock.Real{}
	schedulingPolicy := cfg.SchedulingPolicy()
	releasePolicy := cfg.AutoReleasePolicy()
	log.Info("Scheduling policy: buffer=%s, duration=[%s, %s], grace=%s from %s",
		schedulingPolicy.Buffer, schedulingPolicy.MinDuration, schedulingPolicy.MaxDuration,
		releasePolicy.GracePeriod, releasePolicy.Anchor)

	// Доменные сервисы
	detector := conflict.NewDetector(schedulingPolicy.Buffer)
	finder := availability.NewFinder(detector, schedulingPolicy)

	roomSvc := roomsService.NewService(store.rooms, store.txManager, timeProvider, log)
	reservationSvc := reservationsService.NewService(
		store.reservations,
		store.txManager,
		releasePolicy,
		timeProvider,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		store.rooms,
		store.reservations,
		finder,
		store.txManager,
		schedulingPolicy,
		timeProvider,
		log,
	)
	reserveRoomUseCase := reserveRoomUC.NewUseCase(
		store.rooms,
		store.reservations,
		detector,
		checkAvailabilityUseCase,
		store.txManager,
		schedulingPolicy,
		timeProvider,
		metricsCollector,
		log,
	)
	overrideConflictUseCase := overrideConflictUC.NewUseCase(
		store.rooms,
		store.reservations,
		detector,
		store.txManager,
		schedulingPolicy,
		timeProvider,
		metricsCollector,
		log,
	)
	listScheduleUseCase := listScheduleUC.NewUseCase(
		store.rooms,
		store.reservations,
		store.txManager,
		log,
	)

	handlers := api.Handlers{
		ReserveRoom:        reserveRoomHandler.NewHandler(reserveRoomUseCase, log),
		OverrideConflict:   overrideConflictHandler.NewHandler(overrideConflictUseCase, log),
		CheckAvailability:  checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log),
		ListSchedule:       listScheduleHandler.NewHandler(listScheduleUseCase, log),
		ConfirmReservation: confirmReservationHandler.NewHandler(reservationSvc, log),
		CheckIn:            checkInHandler.NewHandler(reservationSvc, log),
		CheckOut:           checkOutHandler.NewHandler(reservationSvc, log),
		CancelReservation:  cancelReservationHandler.NewHandler(reservationSvc, log),
		GetReservation:     getReservationHandler.NewHandler(reservationSvc, log),
		ManageRooms:        manageRoomsHandler.NewHandler(roomSvc, log),
	}

	// Фоновый auto-release
	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	if cfg.AutoRelease.Enabled {
		sweeper := autorelease.NewSweeper(
			reservationSvc,
			time.Duration(cfg.AutoRelease.IntervalSeconds)*time.Second,
			time.Duration(cfg.AutoRelease.TimeoutSeconds)*time.Second,
			metricsCollector,
			timeProvider,
			log,
		)
		handlers.AutoRelease = autoReleaseHandler.NewHandler(sweeper, log)

		go func() {
			defer close(workerDone)
			sweeper.Run(workerCtx)
		}()
		log.Info("Auto-release worker started (interval=%ds)", cfg.AutoRelease.IntervalSeconds)
	} else {
		close(workerDone)
	}

	// Настраиваем роутер
	opts := api.Options{}
	if cfg.Metrics.Enabled {
		opts.Metrics = metricsCollector
		opts.MetricsPath = cfg.Metrics.Path
		opts.MetricsHandler = promhttp.Handler()
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}
	if cfg.RateLimit.Enabled {
		opts.RateLimiter = middleware.NewClientRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		log.Info("Rate limit enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}
	r := api.NewRouter(handlers, opts)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	stopWorker()
	<-workerDone
	log.Info("Auto-release worker stopped")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
