package override_conflict

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

// validateRequest валидирует входные данные запроса
// Override обходит только решение детектора конфликтов, границы длительности проверяются как обычно
func validateRequest(req *Request, policy domain.SchedulingPolicy) error {
	if strings.TrimSpace(req.ApproverID) == "" {
		return ErrMissingApprover
	}

	if strings.TrimSpace(req.Justification) == "" {
		return ErrMissingJustification
	}

	if len(req.Justification) > domain.MaxJustificationLength {
		return fmt.Errorf("%w: justification exceeds %d characters", ErrInvalidInput, domain.MaxJustificationLength)
	}

	if strings.TrimSpace(req.RoomID) == "" {
		return fmt.Errorf("%w: roomId is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CaseID) == "" {
		return fmt.Errorf("%w: caseId is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.EmbalmerID) == "" {
		return fmt.Errorf("%w: embalmerId is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ApproverID) == strings.TrimSpace(req.EmbalmerID) {
		return fmt.Errorf("%w: %s", ErrSelfApproval, strings.TrimSpace(req.ApproverID))
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return policy.ValidateWindow(domain.NewTimeWindow(req.ReservedFrom, req.ReservedTo))
}

// auditNote запись об override в заметках бронирования
func auditNote(approverID, justification string, overridden []string) string {
	ids := "none"
	if len(overridden) > 0 {
		ids = strings.Join(overridden, ",")
	}
	return fmt.Sprintf("[override] approver=%s; justification=%s; overridden=%s",
		strings.TrimSpace(approverID), strings.TrimSpace(justification), ids)
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
