package repo

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Общие ошибки репозиториев.
var (
	// ErrNotFound — запись не найдена в БД.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists — запись уже существует (конфликт уникальности).
	ErrAlreadyExists = errors.New("already exists")
)

// uniqueViolation — SQLSTATE конфликта уникальности.
const uniqueViolation = "23505"

// mapWriteError переводит ошибки драйвера при записи в ошибки репозитория.
// Уникальные имена processors, workflows и orchestrated flows держатся
// на констрейнтах БД, не на проверках в коде.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, pgErr.ConstraintName)
	}
	return err
}
