package rooms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/infra/storage/temporal"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/rooms/models"
)

// Service сервис для работы с препараторскими
// Комнаты не изменяются на месте: любое изменение вместимости или статуса добавляет версию
type Service struct {
	roomRepo     RoomRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса комнат
func NewService(
	roomRepo RoomRepository,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		roomRepo:     roomRepo,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Create регистрирует комнату (версия 1)
func (s *Service) Create(ctx context.Context, req *models.CreateRoomRequest) (*models.RoomResponse, error) {
	s.logger.Info("Create: funeralHome=%s, room=%s, capacity=%d", req.FuneralHomeID, req.RoomNumber, req.Capacity)

	funeralHomeID := strings.TrimSpace(req.FuneralHomeID)
	roomNumber := strings.TrimSpace(req.RoomNumber)
	if funeralHomeID == "" || roomNumber == "" {
		s.logger.Warn("Create: funeralHomeId and roomNumber are required")
		return nil, fmt.Errorf("%w: funeralHomeId and roomNumber are required", ErrInvalidInput)
	}
	if strings.Contains(funeralHomeID, ":") {
		return nil, fmt.Errorf("%w: funeralHomeId must not contain ':'", ErrInvalidInput)
	}
	if !domain.IsValidCapacity(req.Capacity) {
		s.logger.Warn("Create: invalid capacity=%d", req.Capacity)
		return nil, fmt.Errorf("%w: capacity must be between %d and %d", ErrInvalidInput, domain.MinRoomCapacity, domain.MaxRoomCapacity)
	}

	status := domain.RoomStatusAvailable
	if req.Status != "" {
		parsed, ok := models.ToDomainRoomStatus(req.Status)
		if !ok {
			s.logger.Warn("Create: invalid status=%s", req.Status)
			return nil, fmt.Errorf("%w: unknown room status %q", ErrInvalidInput, req.Status)
		}
		status = parsed
	}

	room := &domain.Room{
		ID:            domain.RoomKey(funeralHomeID, roomNumber),
		FuneralHomeID: funeralHomeID,
		RoomNumber:    roomNumber,
		Capacity:      req.Capacity,
		Status:        status,
		Versioning:    domain.FirstVersion(s.timeProvider.Now()),
	}

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.roomRepo.Create(txCtx, room); err != nil {
			if errors.Is(err, temporal.ErrAlreadyExists) {
				s.logger.Warn("Create: room=%s already exists", room.ID)
				return fmt.Errorf("%w: %s", ErrRoomAlreadyExists, room.ID)
			}
			s.logger.Error("Create: repository error for room=%s: %v", room.ID, err)
			return fmt.Errorf("%w: Create - repository error: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Create: successfully created room=%s", room.ID)
	return models.FromDomainRoom(room), nil
}

// Update меняет вместимость и/или статус комнаты, добавляя новую версию
// Уже существующие бронирования не пересматриваются
func (s *Service) Update(ctx context.Context, id string, req *models.UpdateRoomRequest) (*models.RoomResponse, error) {
	s.logger.Info("Update: room=%s, capacity=%v, status=%v", id, req.Capacity, req.Status)

	if req.Capacity == nil && req.Status == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if req.Capacity != nil && !domain.IsValidCapacity(*req.Capacity) {
		s.logger.Warn("Update: invalid capacity=%d for room=%s", *req.Capacity, id)
		return nil, fmt.Errorf("%w: capacity must be between %d and %d", ErrInvalidInput, domain.MinRoomCapacity, domain.MaxRoomCapacity)
	}

	var status *domain.RoomStatus
	if req.Status != nil {
		parsed, ok := models.ToDomainRoomStatus(*req.Status)
		if !ok {
			s.logger.Warn("Update: invalid status=%s for room=%s", *req.Status, id)
			return nil, fmt.Errorf("%w: unknown room status %q", ErrInvalidInput, *req.Status)
		}
		status = &parsed
	}

	now := s.timeProvider.Now()
	var result *domain.Room

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.roomRepo.LockCurrent(txCtx, id)
		if err != nil {
			return s.mapRepoError("Update", id, err)
		}

		next := current.NextVersion(now)
		if req.Capacity != nil {
			next.Capacity = *req.Capacity
		}
		if status != nil {
			next.Status = *status
		}

		if err := s.roomRepo.AppendVersion(txCtx, next); err != nil {
			if errors.Is(err, temporal.ErrVersionConflict) {
				s.logger.Warn("Update: room=%s modified concurrently", id)
				return fmt.Errorf("%w: %s", ErrConcurrentUpdate, id)
			}
			s.logger.Error("Update: failed to append version for room=%s: %v", id, err)
			return fmt.Errorf("%w: Update - append version: %w", ErrInternal, err)
		}

		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: room=%s now at version=%d", id, result.Version)
	return models.FromDomainRoom(result), nil
}

// GetByID текущая версия комнаты
func (s *Service) GetByID(ctx context.Context, id string) (*models.RoomResponse, error) {
	room, err := s.roomRepo.GetCurrent(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("GetByID", id, err)
	}
	return models.FromDomainRoom(room), nil
}

// List текущие версии комнат похоронного дома
func (s *Service) List(ctx context.Context, funeralHomeID string) (*models.RoomListResponse, error) {
	if strings.TrimSpace(funeralHomeID) == "" {
		return nil, fmt.Errorf("%w: funeralHomeId is required", ErrInvalidInput)
	}

	rooms, err := s.roomRepo.ListCurrent(ctx, funeralHomeID)
	if err != nil {
		s.logger.Error("List: repository error for funeralHome=%s: %v", funeralHomeID, err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d rooms for funeralHome=%s", len(rooms), funeralHomeID)
	return models.FromDomainRoomList(rooms), nil
}

// History все версии комнаты
func (s *Service) History(ctx context.Context, id string) (*models.RoomListResponse, error) {
	versions, err := s.roomRepo.History(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("History", id, err)
	}
	return models.FromDomainRoomList(versions), nil
}

// AsOf версия комнаты, действовавшая в момент at
func (s *Service) AsOf(ctx context.Context, id string, at time.Time) (*models.RoomResponse, error) {
	room, err := s.roomRepo.AsOf(ctx, id, at)
	if err != nil {
		return nil, s.mapRepoError("AsOf", id, err)
	}
	return models.FromDomainRoom(room), nil
}

func (s *Service) mapRepoError(op, id string, err error) error {
	if errors.Is(err, temporal.ErrNotFound) {
		s.logger.Warn("%s: room=%s not found", op, id)
		return fmt.Errorf("%w: id=%s", ErrRoomNotFound, id)
	}
	s.logger.Error("%s: repository error for room=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
}
