package sqlite

import (
	"errors"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/phonebook/internal/storage"
)

// isConstraint reports whether err is a SQLite constraint violation
// (foreign key, unique, primary key, not null, check).
func isConstraint(err error) bool {
	var se *msqlite.Error
	if errors.As(err, &se) {
		// Extended codes keep the primary code in the low byte.
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return strings.Contains(strings.ToLower(err.Error()), "constraint failed")
}

// wrapErr converts a driver error into a *storage.Error. Constraint
// violations become KindConstraint; everything else gets fallback.
func wrapErr(op string, fallback storage.Kind, err error) error {
	if err == nil {
		return nil
	}
	var se *storage.Error
	if errors.As(err, &se) {
		return err
	}
	if isConstraint(err) {
		return storage.NewError(op, storage.KindConstraint, err)
	}
	return storage.NewError(op, fallback, err)
}
