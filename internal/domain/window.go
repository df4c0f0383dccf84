package domain

import "time"

// TimeWindow полуоткрытый интервал времени [Start, End)
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// NewTimeWindow создает интервал
func NewTimeWindow(start, end time.Time) TimeWindow {
	return TimeWindow{Start: start, End: end}
}

// Duration длительность интервала
func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// IsValid возвращает true, если конец строго позже начала
func (w TimeWindow) IsValid() bool {
	return w.End.After(w.Start)
}

// Overlaps проверяет пересечение полуоткрытых интервалов
// Интервалы, которые только соприкасаются границами, не пересекаются
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// ExtendEnd возвращает интервал, продленный на d после окончания
func (w TimeWindow) ExtendEnd(d time.Duration) TimeWindow {
	return TimeWindow{Start: w.Start, End: w.End.Add(d)}
}

// Contains проверяет, что момент t попадает в интервал
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// OverlapDuration длительность пересечения с другим интервалом
func (w TimeWindow) OverlapDuration(o TimeWindow) time.Duration {
	start := w.Start
	if o.Start.After(start) {
		start = o.Start
	}
	end := w.End
	if o.End.Before(end) {
		end = o.End
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}
