package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-PrepRoomService/internal/config"
	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/infra/storage/memory"
	reservationRepo "github.com/m04kA/SMC-PrepRoomService/internal/infra/storage/reservation"
	roomRepo "github.com/m04kA/SMC-PrepRoomService/internal/infra/storage/room"
	"github.com/m04kA/SMC-PrepRoomService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PrepRoomService/pkg/logger"
	"github.com/m04kA/SMC-PrepRoomService/pkg/metrics"
	"github.com/m04kA/SMC-PrepRoomService/pkg/txmanager"
)

// roomRepository общий набор методов postgres и memory репозиториев комнат
type roomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	AppendVersion(ctx context.Context, next *domain.Room) error
	GetCurrent(ctx context.Context, id string) (*domain.Room, error)
	LockCurrent(ctx context.Context, id string) (*domain.Room, error)
	AsOf(ctx context.Context, id string, at time.Time) (*domain.Room, error)
	ListCurrent(ctx context.Context, funeralHomeID string) ([]*domain.Room, error)
	History(ctx context.Context, id string) ([]*domain.Room, error)
}

// reservationRepository общий набор методов postgres и memory репозиториев бронирований
type reservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	AppendVersion(ctx context.Context, next *domain.Reservation) error
	GetCurrent(ctx context.Context, id string) (*domain.Reservation, error)
	LockCurrent(ctx context.Context, id string) (*domain.Reservation, error)
	AsOf(ctx context.Context, id string, at time.Time) (*domain.Reservation, error)
	ListCurrent(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	History(ctx context.Context, id string) ([]*domain.Reservation, error)
}

type transactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

type storage struct {
	rooms        roomRepository
	reservations reservationRepository
	txManager    transactionManager
	close        func()
}

// openStorage поднимает хранилище по storage.driver
func openStorage(cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn("Using in-memory storage, data will be lost on restart")
		store := memory.NewStore()
		return &storage{
			rooms:        store.Rooms(),
			reservations: store.Reservations(),
			txManager:    store.TxManager(),
			close:        func() {},
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	stopStatsCh := make(chan struct{})
	wrappedDB := dbmetrics.WrapWithDefault(db, m, stopStatsCh)
	if m != nil {
		log.Info("Database metrics collection started")
	}

	return &storage{
		rooms:        roomRepo.NewRepository(wrappedDB),
		reservations: reservationRepo.NewRepository(wrappedDB),
		txManager:    txmanager.NewTransactionManager(wrappedDB),
		close: func() {
			close(stopStatsCh)
			_ = db.Close()
		},
	}, nil
}
