package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/service/conflict"
)

// Finder подбирает свободные слоты по всем комнатам похоронного дома
// Работает над переданными комнатами и бронированиями, к хранилищу не обращается
type Finder struct {
	detector *conflict.Detector
	policy   domain.SchedulingPolicy
}

// NewFinder создает поиск слотов
func NewFinder(detector *conflict.Detector, policy domain.SchedulingPolicy) *Finder {
	return &Finder{
		detector: detector,
		policy:   policy,
	}
}

// Query параметры поиска
type Query struct {
	Rooms        []*domain.Room
	Reservations []*domain.Reservation // активные бронирования комнат в окне поиска

	Duration time.Duration
	Priority domain.Priority

	// Now текущее время; слоты в прошлом не предлагаются
	Now time.Time

	// SearchFrom/SearchTo опциональное окно поиска. По умолчанию [Now, Now + горизонт)
	SearchFrom *time.Time
	SearchTo   *time.Time

	// Limit максимальное число слотов, 0 - значение политики
	Limit int

	// ExcludeRoomID комната, которую не нужно предлагать (например, в подсказках к конфликту)
	ExcludeRoomID string
}

// Bounds окно поиска после применения значений по умолчанию и горизонта
func (f *Finder) Bounds(q Query) domain.TimeWindow {
	from := q.Now
	if q.SearchFrom != nil && q.SearchFrom.After(from) {
		from = *q.SearchFrom
	}

	horizonEnd := from.Add(f.policy.SearchHorizon)
	to := horizonEnd
	if q.SearchTo != nil && q.SearchTo.Before(horizonEnd) {
		to = *q.SearchTo
	}

	return domain.NewTimeWindow(from, to)
}

// Find возвращает до Limit слотов, отсортированных по времени начала
// Для срочных запросов слоты, начинающиеся в ближайшие UrgentWindow, идут первыми
// Поиск ограничен горизонтом: если слотов нет, возвращается пустой список
func (f *Finder) Find(q Query) []domain.Slot {
	limit := q.Limit
	if limit <= 0 {
		limit = f.policy.MaxSlots
	}
	if q.Duration <= 0 {
		return []domain.Slot{}
	}

	bounds := f.Bounds(q)
	if !bounds.IsValid() {
		return []domain.Slot{}
	}

	byRoom := make(map[string][]*domain.Reservation)
	for _, r := range q.Reservations {
		byRoom[r.RoomID] = append(byRoom[r.RoomID], r)
	}

	slots := make([]domain.Slot, 0, limit)
	for _, room := range q.Rooms {
		if !room.IsBookable() || room.ID == q.ExcludeRoomID {
			continue
		}
		slots = append(slots, f.roomSlots(room, byRoom[room.ID], bounds, q.Duration, limit)...)
	}

	urgentCutoff := q.Now.Add(f.policy.UrgentWindow)
	urgent := q.Priority == domain.PriorityUrgent

	sort.SliceStable(slots, func(i, j int) bool {
		if urgent {
			iNear := slots[i].Start.Before(urgentCutoff)
			jNear := slots[j].Start.Before(urgentCutoff)
			if iNear != jNear {
				return iNear
			}
		}
		if !slots[i].Start.Equal(slots[j].Start) {
			return slots[i].Start.Before(slots[j].Start)
		}
		return slots[i].RoomNumber < slots[j].RoomNumber
	})

	if len(slots) > limit {
		slots = slots[:limit]
	}
	return slots
}

// roomSlots перебирает кандидатов в одной комнате с шагом политики
// В одной комнате берется не больше limit слотов: остальные все равно не попадут в ответ
func (f *Finder) roomSlots(room *domain.Room, existing []*domain.Reservation, bounds domain.TimeWindow, duration time.Duration, limit int) []domain.Slot {
	step := f.policy.SlotStep
	if step <= 0 {
		step = domain.DefaultSlotStepMinutes * time.Minute
	}

	result := make([]domain.Slot, 0)
	for start := alignUp(bounds.Start, step); !start.Add(duration).After(bounds.End); start = start.Add(step) {
		window := domain.NewTimeWindow(start, start.Add(duration))
		if !f.detector.IsFree(room, window, existing) {
			continue
		}

		result = append(result, domain.Slot{
			RoomID:     room.ID,
			RoomNumber: room.RoomNumber,
			Start:      window.Start,
			End:        window.End,
		})
		if len(result) >= limit {
			break
		}
	}

	return result
}

// alignUp округляет t вверх до границы шага
func alignUp(t time.Time, step time.Duration) time.Time {
	truncated := t.Truncate(step)
	if truncated.Equal(t) {
		return t
	}
	return truncated.Add(step)
}
