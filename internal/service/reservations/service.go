package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/infra/storage/temporal"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/reservations/models"
)

// Service управляет жизненным циклом бронирования
// Каждое действие добавляет новую версию бронирования в сериализуемой транзакции
type Service struct {
	reservationRepo ReservationRepository
	txManager       TransactionManager
	releasePolicy   domain.AutoReleasePolicy
	timeProvider    TimeProvider
	metrics         Metrics
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	releasePolicy domain.AutoReleasePolicy,
	timeProvider TimeProvider,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		txManager:       txManager,
		releasePolicy:   releasePolicy,
		timeProvider:    timeProvider,
		metrics:         metrics,
		logger:          logger,
	}
}

// mutation строит следующую версию бронирования из текущей
type mutation func(current *domain.Reservation, now time.Time) (*domain.Reservation, error)

// GetByID текущая версия бронирования
func (s *Service) GetByID(ctx context.Context, id string) (*models.ReservationResponse, error) {
	reservation, err := s.reservationRepo.GetCurrent(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("GetByID", id, err)
	}
	return models.FromDomainReservation(reservation), nil
}

// History все версии бронирования
func (s *Service) History(ctx context.Context, id string) (*models.ReservationHistoryResponse, error) {
	versions, err := s.reservationRepo.History(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("History", id, err)
	}
	return models.FromDomainHistory(versions), nil
}

// AsOf версия бронирования, действовавшая в момент at
func (s *Service) AsOf(ctx context.Context, id string, at time.Time) (*models.ReservationResponse, error) {
	reservation, err := s.reservationRepo.AsOf(ctx, id, at)
	if err != nil {
		return nil, s.mapRepoError("AsOf", id, err)
	}
	return models.FromDomainReservation(reservation), nil
}

// Confirm переводит бронирование pending -> confirmed
// Подтвердить может только назначенный бальзамировщик
func (s *Service) Confirm(ctx context.Context, id string, req *models.ActorRequest) (*models.ReservationResponse, error) {
	s.logger.Info("Confirm: reservation=%s, embalmer=%s", id, req.EmbalmerID)

	updated, err := s.apply(ctx, "Confirm", id, func(current *domain.Reservation, now time.Time) (*domain.Reservation, error) {
		if err := checkAssigned(current, req.EmbalmerID); err != nil {
			return nil, err
		}
		return current.Transition(domain.StatusConfirmed, now)
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomainReservation(updated), nil
}

// CheckIn заселяет бронирование: pending/confirmed -> in_progress, checkedInAt = now
func (s *Service) CheckIn(ctx context.Context, id string, req *models.ActorRequest) (*models.CheckInResponse, error) {
	s.logger.Info("CheckIn: reservation=%s, embalmer=%s", id, req.EmbalmerID)

	updated, err := s.apply(ctx, "CheckIn", id, func(current *domain.Reservation, now time.Time) (*domain.Reservation, error) {
		if err := checkAssigned(current, req.EmbalmerID); err != nil {
			return nil, err
		}
		next, err := current.Transition(domain.StatusInProgress, now)
		if err != nil {
			return nil, err
		}
		next.CheckedInAt = &now
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	return &models.CheckInResponse{
		ReservationID: updated.ID,
		Status:        string(updated.Status),
		CheckedInAt:   *updated.CheckedInAt,
	}, nil
}

// CheckOut завершает бронирование: in_progress -> completed
// Фактическая длительность считается в полных минутах между заселением и выселением
func (s *Service) CheckOut(ctx context.Context, id string, req *models.ActorRequest) (*models.CheckOutResponse, error) {
	s.logger.Info("CheckOut: reservation=%s, embalmer=%s", id, req.EmbalmerID)

	updated, err := s.apply(ctx, "CheckOut", id, func(current *domain.Reservation, now time.Time) (*domain.Reservation, error) {
		if err := checkAssigned(current, req.EmbalmerID); err != nil {
			return nil, err
		}
		next, err := current.Transition(domain.StatusCompleted, now)
		if err != nil {
			return nil, err
		}
		if next.CheckedInAt == nil || now.Before(*next.CheckedInAt) {
			return nil, fmt.Errorf("%w: reservation %s has no valid check-in", domain.ErrInvalidTransition, id)
		}

		minutes := int(now.Sub(*next.CheckedInAt) / time.Minute)
		next.CheckedOutAt = &now
		next.ActualDurationMinutes = &minutes
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	return &models.CheckOutResponse{
		ReservationID:         updated.ID,
		Status:                string(updated.Status),
		CheckedOutAt:          *updated.CheckedOutAt,
		ActualDurationMinutes: *updated.ActualDurationMinutes,
	}, nil
}

// Cancel отменяет бронирование, ожидающее заселения; причина сохраняется в заметках
func (s *Service) Cancel(ctx context.Context, id string, req *models.CancelRequest) (*models.ReservationResponse, error) {
	s.logger.Info("Cancel: reservation=%s", id)

	reason := strings.TrimSpace(req.Reason)
	if len(reason) > domain.MaxNotesLength {
		s.logger.Warn("Cancel: reason too long for reservation=%s", id)
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	updated, err := s.apply(ctx, "Cancel", id, func(current *domain.Reservation, now time.Time) (*domain.Reservation, error) {
		next, err := current.Transition(domain.StatusCancelled, now)
		if err != nil {
			return nil, err
		}
		if reason == "" {
			next.AppendNote("[cancelled]")
		} else {
			next.AppendNote("[cancelled] " + reason)
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomainReservation(updated), nil
}

// AutoRelease освобождает просроченное удержание: pending/confirmed -> auto_released
// Состояние перепроверяется в транзакции: если бронирование уже заселено или отменено,
// возвращается ошибка недопустимого перехода
func (s *Service) AutoRelease(ctx context.Context, id string) (*models.ReservationResponse, error) {
	updated, err := s.apply(ctx, "AutoRelease", id, func(current *domain.Reservation, now time.Time) (*domain.Reservation, error) {
		if current.Status.IsAwaitingCheckIn() && !s.releasePolicy.IsExpired(current, now) {
			return nil, fmt.Errorf("%w: reservation %s", ErrNotExpired, id)
		}
		next, err := current.Transition(domain.StatusAutoReleased, now)
		if err != nil {
			return nil, err
		}
		next.AppendNote(fmt.Sprintf("[auto-released] no check-in within %d minutes of %s",
			int(s.releasePolicy.GracePeriod/time.Minute), s.releasePolicy.Anchor))
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomainReservation(updated), nil
}

// ListExpiredHolds бронирования, которые ожидают заселения дольше периода ожидания
func (s *Service) ListExpiredHolds(ctx context.Context) ([]*models.ReservationResponse, error) {
	cutoff := s.releasePolicy.Cutoff(s.timeProvider.Now())

	filter := domain.ReservationFilter{
		Statuses:         domain.AwaitingCheckInStatuses,
		OnlyNotCheckedIn: true,
	}
	if s.releasePolicy.Anchor == domain.GraceFromScheduledStart {
		filter.ReservedFromBefore = &cutoff
	} else {
		filter.CreatedBefore = &cutoff
	}

	expired, err := s.reservationRepo.ListCurrent(ctx, filter)
	if err != nil {
		s.logger.Error("ListExpiredHolds: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListExpiredHolds - repository error: %w", ErrInternal, err)
	}

	result := make([]*models.ReservationResponse, 0, len(expired))
	for _, r := range expired {
		result = append(result, models.FromDomainReservation(r))
	}
	return result, nil
}

// apply читает текущую версию под блокировкой, строит следующую и сохраняет ее в одной транзакции
func (s *Service) apply(ctx context.Context, op, id string, mutate mutation) (*domain.Reservation, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: reservation id is required", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	var result *domain.Reservation

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.reservationRepo.LockCurrent(txCtx, id)
		if err != nil {
			return s.mapRepoError(op, id, err)
		}

		next, err := mutate(current, now)
		if err != nil {
			s.logger.Warn("%s: reservation=%s rejected: %v", op, id, err)
			return err
		}

		if err := s.reservationRepo.AppendVersion(txCtx, next); err != nil {
			if errors.Is(err, temporal.ErrVersionConflict) {
				s.logger.Warn("%s: reservation=%s modified concurrently", op, id)
				return fmt.Errorf("%w: %s", ErrConcurrentUpdate, id)
			}
			s.logger.Error("%s: failed to append version for reservation=%s: %v", op, id, err)
			return fmt.Errorf("%w: %s - append version: %w", ErrInternal, op, err)
		}

		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordTransition(string(result.Status))
	}
	s.logger.Info("%s: reservation=%s is now %s (version=%d)", op, id, result.Status, result.Version)
	return result, nil
}

func (s *Service) mapRepoError(op, id string, err error) error {
	if errors.Is(err, temporal.ErrNotFound) {
		s.logger.Warn("%s: reservation=%s not found", op, id)
		return fmt.Errorf("%w: id=%s", ErrReservationNotFound, id)
	}
	s.logger.Error("%s: repository error for reservation=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
}

func checkAssigned(r *domain.Reservation, embalmerID string) error {
	if !r.IsAssignedTo(embalmerID) {
		return fmt.Errorf("%w: reservation %s belongs to %s", ErrNotAssigned, r.ID, r.EmbalmerID)
	}
	return nil
}
