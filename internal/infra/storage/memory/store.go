package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-PrepRoomService/internal/domain"
	"github.com/m04kA/SMC-PrepRoomService/internal/infra/storage/temporal"
)

// Store in-memory темпоральное хранилище комнат и бронирований
// Используется в тестах и при storage.driver = "memory"
type Store struct {
	mu           sync.RWMutex
	rooms        *table[*domain.Room]
	reservations *table[*domain.Reservation]

	// txMu сериализует транзакции целиком: проверка и запись выполняются без чередования
	txMu sync.Mutex
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		rooms:        newTable(func(r *domain.Room) string { return r.ID }),
		reservations: newTable(func(r *domain.Reservation) string { return r.ID }),
	}
}

// Rooms репозиторий комнат
func (s *Store) Rooms() *RoomRepository {
	return &RoomRepository{store: s}
}

// Reservations репозиторий бронирований
func (s *Store) Reservations() *ReservationRepository {
	return &ReservationRepository{store: s}
}

// TxManager менеджер транзакций над хранилищем
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

// RoomRepository репозиторий комнат поверх Store
type RoomRepository struct {
	store *Store
}

// Create сохраняет первую версию комнаты
func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.rooms.insertFirst(room)
}

// AppendVersion закрывает текущую версию и добавляет новую
func (r *RoomRepository) AppendVersion(ctx context.Context, next *domain.Room) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.rooms.appendVersion(next)
}

// GetCurrent текущая версия комнаты
func (r *RoomRepository) GetCurrent(ctx context.Context, id string) (*domain.Room, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	room, ok := r.store.rooms.current(id)
	if !ok {
		return nil, fmt.Errorf("%w: room %s", temporal.ErrNotFound, id)
	}
	return room, nil
}

// LockCurrent текущая версия комнаты для последующей записи
// Блокировка обеспечивается сериализацией транзакций в TxManager
func (r *RoomRepository) LockCurrent(ctx context.Context, id string) (*domain.Room, error) {
	return r.GetCurrent(ctx, id)
}

// ListCurrent текущие версии комнат похоронного дома, по номеру комнаты
func (r *RoomRepository) ListCurrent(ctx context.Context, funeralHomeID string) ([]*domain.Room, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rooms := r.store.rooms.scanCurrent(func(room *domain.Room) bool {
		return room.FuneralHomeID == funeralHomeID
	})
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].RoomNumber < rooms[j].RoomNumber })
	return rooms, nil
}

// History все версии комнаты по возрастанию номера версии
func (r *RoomRepository) History(ctx context.Context, id string) ([]*domain.Room, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	versions := r.store.rooms.history(id)
	if len(versions) == 0 {
		return nil, fmt.Errorf("%w: room %s", temporal.ErrNotFound, id)
	}
	return versions, nil
}

// AsOf версия комнаты, действовавшая в момент at
func (r *RoomRepository) AsOf(ctx context.Context, id string, at time.Time) (*domain.Room, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	room, ok := r.store.rooms.asOf(id, at)
	if !ok {
		return nil, fmt.Errorf("%w: room %s as of %s", temporal.ErrNotFound, id, at.Format(time.RFC3339))
	}
	return room, nil
}

// ReservationRepository репозиторий бронирований поверх Store
type ReservationRepository struct {
	store *Store
}

// Create сохраняет первую версию бронирования
// Активное бронирование с тем же бизнес-ключом может быть только одно
func (r *ReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if reservation.IsActive() {
		filter := domain.ActiveByBusinessKey(reservation.RoomID, reservation.CaseID, reservation.EmbalmerID)
		if dup := r.store.reservations.scanCurrent(filter.Matches); len(dup) > 0 {
			return fmt.Errorf("%w: active reservation %s for %s", temporal.ErrAlreadyExists, dup[0].ID, reservation.BusinessKey())
		}
	}
	return r.store.reservations.insertFirst(reservation)
}

// AppendVersion закрывает текущую версию и добавляет новую
func (r *ReservationRepository) AppendVersion(ctx context.Context, next *domain.Reservation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.reservations.appendVersion(next)
}

// GetCurrent текущая версия бронирования
func (r *ReservationRepository) GetCurrent(ctx context.Context, id string) (*domain.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	reservation, ok := r.store.reservations.current(id)
	if !ok {
		return nil, fmt.Errorf("%w: reservation %s", temporal.ErrNotFound, id)
	}
	return reservation, nil
}

// LockCurrent текущая версия бронирования для последующей записи
func (r *ReservationRepository) LockCurrent(ctx context.Context, id string) (*domain.Reservation, error) {
	return r.GetCurrent(ctx, id)
}

// ListCurrent текущие версии бронирований по фильтру, по времени начала
func (r *ReservationRepository) ListCurrent(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	reservations := r.store.reservations.scanCurrent(filter.Matches)
	sort.SliceStable(reservations, func(i, j int) bool {
		return reservations[i].ReservedFrom.Before(reservations[j].ReservedFrom)
	})
	return reservations, nil
}

// History все версии бронирования
func (r *ReservationRepository) History(ctx context.Context, id string) ([]*domain.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	versions := r.store.reservations.history(id)
	if len(versions) == 0 {
		return nil, fmt.Errorf("%w: reservation %s", temporal.ErrNotFound, id)
	}
	return versions, nil
}

// AsOf версия бронирования, действовавшая в момент at
func (r *ReservationRepository) AsOf(ctx context.Context, id string, at time.Time) (*domain.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	reservation, ok := r.store.reservations.asOf(id, at)
	if !ok {
		return nil, fmt.Errorf("%w: reservation %s as of %s", temporal.ErrNotFound, id, at.Format(time.RFC3339))
	}
	return reservation, nil
}
