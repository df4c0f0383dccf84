package temporal

import "errors"

// Ошибки темпорального хранилища, общие для PostgreSQL и in-memory реализаций
var (
	// ErrNotFound текущая (или действовавшая на момент) версия не найдена
	ErrNotFound = errors.New("temporal: entity not found")

	// ErrAlreadyExists у бизнес-ключа уже есть текущая версия
	ErrAlreadyExists = errors.New("temporal: entity already exists")

	// ErrVersionConflict предыдущая версия уже не текущая (ее закрыл конкурентный писатель)
	ErrVersionConflict = errors.New("temporal: version conflict")
)
