package clock

import (
	"sync"
	"time"
)

// Real провайдер текущего времени для production (UTC)
type Real struct{}

// Now возвращает текущее время
func (Real) Now() time.Time {
	return time.Now().UTC()
}

// Fixed управляемый провайдер времени для тестов
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixed создает провайдер, возвращающий now
func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

// Now возвращает установленное время
func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set устанавливает текущее время
func (f *Fixed) Set(now time.Time) {
	f.mu.Lock()
	f.now = now
	f.mu.Unlock()
}

// Advance сдвигает текущее время на d
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}
