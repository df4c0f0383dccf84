package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/infra/storage/temporal"
)

// versioned сущность с метаданными версии, которую можно глубоко скопировать
type versioned[T any] interface {
	Meta() *domain.Versioning
	Clone() T
}

// table append-only таблица версий, сгруппированных по бизнес-ключу
// Версии ключа хранятся в порядке возрастания номера; последняя текущая, если ключ не закрыт
type table[T versioned[T]] struct {
	rows map[string][]T
	key  func(T) string

	// undo исходные версии ключей, измененных в открытой транзакции; nil вне транзакции
	// Отсутствовавший ключ записывается пустым срезом
	undo map[string][]T
}

func newTable[T versioned[T]](key func(T) string) *table[T] {
	return &table[T]{
		rows: make(map[string][]T),
		key:  key,
	}
}

// insertFirst добавляет первую версию ключа
func (t *table[T]) insertFirst(entity T) error {
	key := t.key(entity)
	if _, ok := t.current(key); ok {
		return fmt.Errorf("%w: %s", temporal.ErrAlreadyExists, key)
	}
	if entity.Meta().Version != 1 {
		return fmt.Errorf("%w: first version of %s must be 1, got %d", temporal.ErrVersionConflict, key, entity.Meta().Version)
	}

	t.touch(key)
	t.rows[key] = append(t.rows[key], entity.Clone())
	return nil
}

// appendVersion закрывает текущую версию n и добавляет версию n+1
func (t *table[T]) appendVersion(next T) error {
	key := t.key(next)
	meta := next.Meta()

	versions := t.rows[key]
	if len(versions) == 0 {
		return fmt.Errorf("%w: %s", temporal.ErrNotFound, key)
	}

	last := versions[len(versions)-1].Meta()
	if !last.IsCurrent || last.Version != meta.Version-1 {
		return fmt.Errorf("%w: %s expected current version %d", temporal.ErrVersionConflict, key, meta.Version-1)
	}

	t.touch(key)

	closedAt := meta.ValidFrom
	last.ValidTo = &closedAt
	last.IsCurrent = false

	t.rows[key] = append(versions, next.Clone())
	return nil
}

func (t *table[T]) current(key string) (T, bool) {
	var zero T
	versions := t.rows[key]
	if len(versions) == 0 {
		return zero, false
	}
	last := versions[len(versions)-1]
	if !last.Meta().IsCurrent {
		return zero, false
	}
	return last.Clone(), true
}

func (t *table[T]) asOf(key string, at time.Time) (T, bool) {
	var zero T
	for _, v := range t.rows[key] {
		if v.Meta().ValidAt(at) {
			return v.Clone(), true
		}
	}
	return zero, false
}

func (t *table[T]) history(key string) []T {
	versions := t.rows[key]
	out := make([]T, 0, len(versions))
	for _, v := range versions {
		out = append(out, v.Clone())
	}
	return out
}

// scanCurrent текущие версии, удовлетворяющие match, в порядке ключей
func (t *table[T]) scanCurrent(match func(T) bool) []T {
	keys := make([]string, 0, len(t.rows))
	for k := range t.rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]T, 0)
	for _, k := range keys {
		if v, ok := t.current(k); ok && match(v) {
			out = append(out, v)
		}
	}
	return out
}

// begin начинает журнал изменений транзакции
func (t *table[T]) begin() {
	t.undo = make(map[string][]T)
}

// touch запоминает версии ключа до первого изменения в транзакции
func (t *table[T]) touch(key string) {
	if t.undo == nil {
		return
	}
	if _, ok := t.undo[key]; ok {
		return
	}
	t.undo[key] = t.history(key)
}

// commit закрывает журнал, изменения остаются
func (t *table[T]) commit() {
	t.undo = nil
}

// rollback возвращает измененные в транзакции ключи к исходным версиям
func (t *table[T]) rollback() {
	for key, versions := range t.undo {
		if len(versions) == 0 {
			delete(t.rows, key)
			continue
		}
		t.rows[key] = versions
	}
	t.undo = nil
}
