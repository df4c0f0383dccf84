package domain

import (
	"fmt"
	"time"
)

// SchedulingPolicy параметры планирования, общие для детектора конфликтов и поиска слотов
type SchedulingPolicy struct {
	Buffer        time.Duration // обязательный зазор на уборку/подготовку между бронированиями
	MinDuration   time.Duration
	MaxDuration   time.Duration
	SlotStep      time.Duration // шаг перебора кандидатов при поиске слотов
	SearchHorizon time.Duration // горизонт поиска слотов
	MaxSlots      int
	UrgentWindow  time.Duration // срочные запросы: слоты в этом окне идут первыми
}

// DefaultSchedulingPolicy политика по умолчанию
func DefaultSchedulingPolicy() SchedulingPolicy {
	return SchedulingPolicy{
		Buffer:        DefaultBufferMinutes * time.Minute,
		MinDuration:   MinReservationMinutes * time.Minute,
		MaxDuration:   MaxReservationMinutes * time.Minute,
		SlotStep:      DefaultSlotStepMinutes * time.Minute,
		SearchHorizon: DefaultSearchHorizonDays * 24 * time.Hour,
		MaxSlots:      DefaultMaxSlots,
		UrgentWindow:  DefaultUrgentWindowMinutes * time.Minute,
	}
}

// ValidateWindow проверяет границы длительности бронирования [MinDuration, MaxDuration]
func (p SchedulingPolicy) ValidateWindow(w TimeWindow) error {
	if !w.IsValid() {
		return fmt.Errorf("%w: reservedTo must be after reservedFrom", ErrValidation)
	}
	return p.ValidateDuration(w.Duration())
}

// ValidateDuration проверяет длительность
func (p SchedulingPolicy) ValidateDuration(d time.Duration) error {
	if d < p.MinDuration || d > p.MaxDuration {
		return fmt.Errorf("%w: duration %d minutes is outside [%d, %d]",
			ErrValidation, int(d/time.Minute), int(p.MinDuration/time.Minute), int(p.MaxDuration/time.Minute))
	}
	return nil
}

// GraceAnchor момент, от которого отсчитывается период ожидания заселения
type GraceAnchor string

const (
	GraceFromCreation       GraceAnchor = "created_at"
	GraceFromScheduledStart GraceAnchor = "reserved_from"
)

// IsValid проверяет, что якорь известен
func (a GraceAnchor) IsValid() bool {
	return a == GraceFromCreation || a == GraceFromScheduledStart
}

// AutoReleasePolicy параметры автоматического освобождения неподтвержденных удержаний
type AutoReleasePolicy struct {
	GracePeriod time.Duration
	Anchor      GraceAnchor
}

// DefaultAutoReleasePolicy политика по умолчанию: 30 минут от создания
func DefaultAutoReleasePolicy() AutoReleasePolicy {
	return AutoReleasePolicy{
		GracePeriod: DefaultGracePeriodMinutes * time.Minute,
		Anchor:      GraceFromCreation,
	}
}

// AnchorTime момент, от которого отсчитывается grace period для бронирования
func (p AutoReleasePolicy) AnchorTime(r *Reservation) time.Time {
	if p.Anchor == GraceFromScheduledStart {
		return r.ReservedFrom
	}
	return r.CreatedAt
}

// IsExpired возвращает true, если бронирование не заселено и grace period истек к моменту now
func (p AutoReleasePolicy) IsExpired(r *Reservation, now time.Time) bool {
	if !r.IsAwaitingCheckIn() {
		return false
	}
	return now.Sub(p.AnchorTime(r)) > p.GracePeriod
}

// Cutoff граница: бронирования с якорем раньше нее просрочены к моменту now
func (p AutoReleasePolicy) Cutoff(now time.Time) time.Time {
	return now.Add(-p.GracePeriod)
}
