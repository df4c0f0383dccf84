package memory

import "context"

type txKey struct{}

// TxManager выполняет функции над Store по одной за раз
// При ошибке или панике изменения, сделанные функцией, откатываются
type TxManager struct {
	store *Store
}

// Do выполняет fn в транзакции
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoSerializable выполняет fn в транзакции; в памяти все транзакции сериализуемы
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов: транзакция уже открыта
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	// Откат по журналу затронутых ключей
	m.store.mu.Lock()
	m.store.rooms.begin()
	m.store.reservations.begin()
	m.store.mu.Unlock()

	finish := func(commit bool) {
		m.store.mu.Lock()
		defer m.store.mu.Unlock()
		if commit {
			m.store.rooms.commit()
			m.store.reservations.commit()
			return
		}
		m.store.rooms.rollback()
		m.store.reservations.rollback()
	}

	defer func() {
		if p := recover(); p != nil {
			finish(false)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		finish(false)
		return err
	}
	finish(true)
	return nil
}
