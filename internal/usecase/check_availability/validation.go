package check_availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, policy domain.SchedulingPolicy) error {
	if strings.TrimSpace(req.FuneralHomeID) == "" {
		return fmt.Errorf("%w: funeralHomeId is required", ErrInvalidInput)
	}

	if err := policy.ValidateDuration(time.Duration(req.DurationMinutes) * time.Minute); err != nil {
		return err
	}

	if req.Priority != "" && !domain.Priority(req.Priority).IsValid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, req.Priority)
	}

	if req.SearchFrom != nil && req.SearchTo != nil && !req.SearchTo.After(*req.SearchFrom) {
		return fmt.Errorf("%w: searchTo must be after searchFrom", ErrInvalidInput)
	}

	if req.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}

	return nil
}

// priorityOrDefault приоритет запроса, normal если не указан
func priorityOrDefault(p string) domain.Priority {
	if p == "" {
		return domain.PriorityNormal
	}
	return domain.Priority(p)
}
