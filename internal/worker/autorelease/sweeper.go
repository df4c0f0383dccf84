package autorelease

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

// ErrSweepFailed возвращается, если прогон не смог обработать часть бронирований
var ErrSweepFailed = errors.New("autorelease: sweep failed")

// Sweeper периодически освобождает удержания без заселения
// Пишет только через сервис бронирований, поэтому подчиняется тем же проверкам переходов
type Sweeper struct {
	service      ReservationService
	interval     time.Duration
	timeout      time.Duration
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewSweeper создает sweeper с интервалом тиков interval
// timeout ограничивает один прогон; 0 означает без ограничения
func NewSweeper(
	service ReservationService,
	interval time.Duration,
	timeout time.Duration,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *Sweeper {
	return &Sweeper{
		service:      service,
		interval:     interval,
		timeout:      timeout,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Run выполняет прогоны по таймеру до отмены ctx
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("AutoRelease: sweeper started, interval=%s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("AutoRelease: sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.runOnce(ctx); err != nil {
				s.logger.Error("AutoRelease: sweep finished with errors: %v", err)
			}
		}
	}
}

// Sweep выполняет один прогон и возвращает число освобожденных бронирований
// Бронирования, которые уже перешли в другое состояние, пропускаются; ошибки остальных
// не прерывают прогон и возвращаются вместе
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	return s.runOnce(ctx)
}

func (s *Sweeper) runOnce(ctx context.Context) (int, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := s.timeProvider.Now()

	expired, err := s.service.ListExpiredHolds(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: list expired holds: %w", ErrSweepFailed, err)
	}

	released := 0
	var errs []error
	for _, r := range expired {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if _, err := s.service.AutoRelease(ctx, r.ID); err != nil {
			if errors.Is(err, domain.ErrInvalidTransition) {
				s.logger.Warn("AutoRelease: reservation=%s skipped: %v", r.ID, err)
				continue
			}
			s.logger.Error("AutoRelease: reservation=%s failed: %v", r.ID, err)
			errs = append(errs, fmt.Errorf("reservation %s: %w", r.ID, err))
			continue
		}
		released++
	}

	elapsed := s.timeProvider.Now().Sub(started)
	if s.metrics != nil {
		s.metrics.RecordSweep(released, elapsed)
	}
	if len(expired) > 0 {
		s.logger.Info("AutoRelease: released %d of %d expired holds in %s", released, len(expired), elapsed)
	}

	if len(errs) > 0 {
		return released, fmt.Errorf("%w: %w", ErrSweepFailed, errors.Join(errs...))
	}
	return released, nil
}
