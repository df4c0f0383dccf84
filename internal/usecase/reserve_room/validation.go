package reserve_room

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, policy domain.SchedulingPolicy) error {
	if strings.TrimSpace(req.RoomID) == "" {
		return fmt.Errorf("%w: roomId is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CaseID) == "" {
		return fmt.Errorf("%w: caseId is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.EmbalmerID) == "" {
		return fmt.Errorf("%w: embalmerId is required", ErrInvalidInput)
	}

	if req.Priority != "" && !domain.Priority(req.Priority).IsValid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, req.Priority)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	// Границы длительности [2ч, 8ч]
	return policy.ValidateWindow(domain.NewTimeWindow(req.ReservedFrom, req.ReservedTo))
}

// validateNotInPast проверяет, что бронирование начинается не раньше текущего момента
func validateNotInPast(start, now time.Time) error {
	if start.Before(now) {
		return fmt.Errorf("%w: reservedFrom %s is before now %s",
			ErrWindowInPast, start.Format(time.RFC3339), now.Format(time.RFC3339))
	}
	return nil
}

// activeNear фильтр активных бронирований комнаты, занятость которых может пересечься с окном
func activeNear(roomID string, window domain.TimeWindow, buffer time.Duration) domain.ReservationFilter {
	from := window.Start.Add(-buffer)
	to := window.End.Add(buffer)
	return domain.ReservationFilter{
		RoomIDs:  []string{roomID},
		Statuses: domain.ActiveStatuses,
		From:     &from,
		To:       &to,
	}
}
