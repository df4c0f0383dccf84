package domain

import "time"

// Versioning метаданные версии сущности в темпоральном хранилище (SCD type 2)
// Каждое изменение сущности добавляет новую версию; предыдущая закрывается
// выставлением ValidTo и IsCurrent = false. Интервал действия версии: [ValidFrom, ValidTo)
type Versioning struct {
	Version   int
	ValidFrom time.Time
	ValidTo   *time.Time // nil пока версия текущая
	IsCurrent bool
}

// Meta возвращает метаданные версии (используется обобщенным хранилищем)
func (v *Versioning) Meta() *Versioning {
	return v
}

// ValidAt возвращает true, если версия действовала в момент t
func (v Versioning) ValidAt(t time.Time) bool {
	if t.Before(v.ValidFrom) {
		return false
	}
	return v.ValidTo == nil || t.Before(*v.ValidTo)
}

// next метаданные следующей версии, действующей с момента at
func (v Versioning) next(at time.Time) Versioning {
	return Versioning{
		Version:   v.Version + 1,
		ValidFrom: at,
		ValidTo:   nil,
		IsCurrent: true,
	}
}

// FirstVersion метаданные первой версии сущности
func FirstVersion(at time.Time) Versioning {
	return Versioning{
		Version:   1,
		ValidFrom: at,
		IsCurrent: true,
	}
}
