package conflict

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
)

// Detector проверяет, помещается ли предлагаемый интервал в комнату с учетом буфера и числа станций
// Чистая функция над переданными данными, к хранилищу не обращается
type Detector struct {
	buffer time.Duration
}

// NewDetector создает детектор с буфером уборки/подготовки после каждого бронирования
func NewDetector(buffer time.Duration) *Detector {
	return &Detector{buffer: buffer}
}

// Request проверяемое бронирование
type Request struct {
	Room     *domain.Room
	Window   domain.TimeWindow
	Priority domain.Priority

	// ExcludeID бронирование, которое не учитывается (само себя при перепроверке)
	ExcludeID string
}

// Result результат проверки
type Result struct {
	Blocked    bool
	Collisions []domain.Collision
}

// Check проверяет запрос против существующих бронирований
// Учитываются только активные бронирования той же комнаты. Приоритет на решение не влияет:
// срочный запрос блокируется так же, как обычный, обход возможен только через override
func (d *Detector) Check(req Request, existing []*domain.Reservation) Result {
	proposed := d.occupancy(req.Window)

	overlapping := make([]*domain.Reservation, 0)
	for _, r := range existing {
		if r.RoomID != req.Room.ID || !r.IsActive() || r.ID == req.ExcludeID {
			continue
		}
		if d.occupancy(r.Window()).Overlaps(proposed) {
			overlapping = append(overlapping, r)
		}
	}

	capacity := req.Room.Capacity
	if capacity < domain.MinRoomCapacity {
		capacity = domain.MinRoomCapacity
	}

	// Быстрый путь: даже если все пересекаются одновременно, станций хватает
	if len(overlapping) < capacity {
		return Result{}
	}

	colliding := d.saturated(proposed, overlapping, capacity)
	if len(colliding) == 0 {
		return Result{}
	}

	collisions := make([]domain.Collision, 0, len(colliding))
	for _, r := range colliding {
		collisions = append(collisions, domain.NewCollision(r))
	}
	sort.Slice(collisions, func(i, j int) bool {
		if !collisions[i].ReservedFrom.Equal(collisions[j].ReservedFrom) {
			return collisions[i].ReservedFrom.Before(collisions[j].ReservedFrom)
		}
		return collisions[i].ReservationID < collisions[j].ReservationID
	})

	return Result{Blocked: true, Collisions: collisions}
}

// IsFree сокращение для поиска слотов
func (d *Detector) IsFree(room *domain.Room, window domain.TimeWindow, existing []*domain.Reservation) bool {
	return !d.Check(Request{Room: room, Window: window, Priority: domain.PriorityNormal}, existing).Blocked
}

// occupancy интервал, в течение которого станция занята: окно бронирования плюс буфер после него
// Два бронирования конфликтуют, если зазор между ними меньше буфера
func (d *Detector) occupancy(w domain.TimeWindow) domain.TimeWindow {
	return w.ExtendEnd(d.buffer)
}

// saturated возвращает бронирования, занимающие станции в те моменты внутри proposed,
// когда свободных станций не остается
func (d *Detector) saturated(proposed domain.TimeWindow, overlapping []*domain.Reservation, capacity int) []*domain.Reservation {
	// Точки разбиения: границы интервалов, обрезанные по proposed
	points := []time.Time{proposed.Start, proposed.End}
	for _, r := range overlapping {
		occ := d.occupancy(r.Window())
		if occ.Start.After(proposed.Start) {
			points = append(points, occ.Start)
		}
		if occ.End.Before(proposed.End) {
			points = append(points, occ.End)
		}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Before(points[j]) })

	seen := make(map[string]struct{})
	result := make([]*domain.Reservation, 0)

	for i := 0; i+1 < len(points); i++ {
		if !points[i].Before(points[i+1]) {
			continue
		}
		segment := domain.NewTimeWindow(points[i], points[i+1])

		busy := make([]*domain.Reservation, 0, len(overlapping))
		for _, r := range overlapping {
			if d.occupancy(r.Window()).Overlaps(segment) {
				busy = append(busy, r)
			}
		}

		if len(busy) < capacity {
			continue
		}
		for _, r := range busy {
			if _, ok := seen[r.ID]; ok {
				continue
			}
			seen[r.ID] = struct{}{}
			result = append(result, r)
		}
	}

	return result
}
