package list_schedule

import (
	"fmt"
	"strings"
	"time"
)

// maxRangeDays ограничение на длину диапазона отчета
const maxRangeDays = 366

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.FuneralHomeID) == "" {
		return fmt.Errorf("%w: funeralHomeId is required", ErrInvalidInput)
	}

	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to dates are required", ErrInvalidInput)
	}

	if req.To.Before(req.From) {
		return fmt.Errorf("%w: to must not be before from", ErrInvalidInput)
	}

	switch req.Granularity {
	case "", GranularityDaily, GranularityWeekly:
	default:
		return fmt.Errorf("%w: unknown granularity %q", ErrInvalidInput, req.Granularity)
	}

	if dayStart(req.To).Sub(dayStart(req.From)) >= maxRangeDays*24*time.Hour {
		return fmt.Errorf("%w: at most %d days", ErrRangeTooLong, maxRangeDays)
	}

	return nil
}

// dayStart полночь дня t в его часовом поясе
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
