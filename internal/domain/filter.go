package domain

import "time"

// ReservationFilter фильтр выборки текущих версий бронирований
// Пустые поля не ограничивают выборку
type ReservationFilter struct {
	FuneralHomeID *string
	RoomIDs       []string
	CaseID        *string
	EmbalmerID    *string
	Statuses      []ReservationStatus

	// Пересечение запланированного интервала с [From, To)
	From *time.Time
	To   *time.Time

	// Для auto-release: якорь строго раньше границы и нет заселения
	CreatedBefore      *time.Time
	ReservedFromBefore *time.Time
	OnlyNotCheckedIn   bool
}

// Matches проверяет бронирование на соответствие фильтру
func (f ReservationFilter) Matches(r *Reservation) bool {
	if f.FuneralHomeID != nil && r.FuneralHomeID != *f.FuneralHomeID {
		return false
	}
	if len(f.RoomIDs) > 0 && !containsString(f.RoomIDs, r.RoomID) {
		return false
	}
	if f.CaseID != nil && r.CaseID != *f.CaseID {
		return false
	}
	if f.EmbalmerID != nil && r.EmbalmerID != *f.EmbalmerID {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, r.Status) {
		return false
	}
	if f.From != nil && !r.ReservedTo.After(*f.From) {
		return false
	}
	if f.To != nil && !r.ReservedFrom.Before(*f.To) {
		return false
	}
	if f.CreatedBefore != nil && !r.CreatedAt.Before(*f.CreatedBefore) {
		return false
	}
	if f.ReservedFromBefore != nil && !r.ReservedFrom.Before(*f.ReservedFromBefore) {
		return false
	}
	if f.OnlyNotCheckedIn && r.CheckedInAt != nil {
		return false
	}
	return true
}

// ActiveByBusinessKey фильтр активных бронирований с тем же бизнес-ключом (комната + дело + бальзамировщик)
func ActiveByBusinessKey(roomID, caseID, embalmerID string) ReservationFilter {
	return ReservationFilter{
		RoomIDs:    []string{roomID},
		CaseID:     &caseID,
		EmbalmerID: &embalmerID,
		Statuses:   ActiveStatuses,
	}
}

// StatusStrings статусы фильтра в виде строк для SQL
func (f ReservationFilter) StatusStrings() []string {
	out := make([]string, len(f.Statuses))
	for i, s := range f.Statuses {
		out[i] = string(s)
	}
	return out
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func containsStatus(values []ReservationStatus, v ReservationStatus) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
