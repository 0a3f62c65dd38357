package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Storage errors the synonyms package translates into application errors.
var (
	ErrDuplicate        = errors.New("duplicate key")
	ErrMissingReference = errors.New("referenced row does not exist")
	ErrNoRows           = errors.New("no rows affected")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps driver constraint errors onto the package sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errors.Join(ErrDuplicate, err)
		case pgForeignKeyViolation:
			return errors.Join(ErrMissingReference, err)
		}
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return errors.Join(ErrDuplicate, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return errors.Join(ErrMissingReference, err)
		case sqlite3.SQLITE_CONSTRAINT:
			msg := liteErr.Error()
			if strings.Contains(msg, "UNIQUE") {
				return errors.Join(ErrDuplicate, err)
			}
			if strings.Contains(msg, "FOREIGN KEY") {
				return errors.Join(ErrMissingReference, err)
			}
		}
	}
	return err
}
