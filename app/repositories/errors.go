package repositories

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("record not found")
)

// PersistenceError wraps any storage-layer failure. Its message is the
// database's own message with every wrapping prefix stripped.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return driverMessage(e.Err)
}

// driverMessage returns the server text of a Postgres error, or the message
// of the innermost wrapped error otherwise.
func driverMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistenceErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// ProvisioningError reports that the store could not be prepared at startup.
// Callers must not serve traffic after receiving one.
type ProvisioningError struct {
	Err error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("posts table could not be created: %v", e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// IsPersistence reports whether err is a storage-layer failure.
func IsPersistence(err error) bool {
	var perr *PersistenceError
	return errors.As(err, &perr)
}
