package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("resource service: record conflicts with an existing one")
	// ErrInvalidSort is returned when the requested sort column is not sortable.
	ErrInvalidSort = errors.New("resource service: column is not sortable")
)

const (
	pgUniqueViolation   = "23505"
	mysqlDuplicateEntry = 1062
)

// classifyWriteError maps driver-level uniqueness failures onto ErrConflict
// and passes every other error through untouched.
func classifyWriteError(err error) error {
	if duplicateKey(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

// duplicateKey recognises the error gorm's translator produces as well as
// the raw pgx and MySQL driver errors, for connections opened without
// TranslateError. SQLite only exposes its constraint failure in the message.
func duplicateKey(err error) bool {
	var (
		pgErr *pgconn.PgError
		myErr *mysql.MySQLError
	)
	switch {
	case err == nil:
		return false
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return true
	case errors.As(err, &pgErr):
		return pgErr.Code == pgUniqueViolation
	case errors.As(err, &myErr):
		return myErr.Number == mysqlDuplicateEntry
	default:
		return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
	}
}
