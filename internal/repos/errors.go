package repos

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrDuplicate means a unique index rejected the write.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInUse means another row still references the one being removed.
	ErrInUse = errors.New("row is still referenced")
)

// constraintError maps the drivers' constraint violations onto ErrDuplicate
// and ErrInUse. Other errors pass through unchanged.
func constraintError(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %v", ErrInUse, err)
		}
		return err
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		switch pe.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %v", ErrInUse, err)
		}
	}
	return err
}
