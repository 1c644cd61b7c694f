package cache

import "errors"

// Общие ошибки кэшей.
var (
	// ErrNotFound — значение отсутствует в кэше (или просрочено).
	ErrNotFound = errors.New("cache entry not found")
)
