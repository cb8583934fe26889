package repositories

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Violation is the reason code of an IntegrityError.
type Violation string

const (
	ViolationUnique    Violation = "unique"    // duplicate key
	ViolationRequired  Violation = "required"  // NOT NULL or non-empty CHECK
	ViolationReference Violation = "reference" // foreign key points at a missing row
)

// IntegrityError is returned by repository writes the store rejected on a
// constraint. Nothing from the failed write is persisted.
type IntegrityError struct {
	Violation Violation
	Err       error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation (%s): %v", e.Violation, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// IsViolation reports whether err is an IntegrityError with the given reason.
func IsViolation(err error, v Violation) bool {
	var ie *IntegrityError
	return errors.As(err, &ie) && ie.Violation == v
}

// classify turns driver constraint errors into *IntegrityError and returns
// every other error unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if v, ok := violationOf(err); ok {
		return &IntegrityError{Violation: v, Err: err}
	}
	return err
}

func violationOf(err error) (Violation, bool) {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ViolationUnique, true
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ViolationReference, true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ViolationUnique, true
		case "23502", "23514":
			return ViolationRequired, true
		case "23503":
			return ViolationReference, true
		}
		return "", false
	}

	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		switch sqErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ViolationUnique, true
		case sqlite3.ErrConstraintNotNull, sqlite3.ErrConstraintCheck:
			return ViolationRequired, true
		case sqlite3.ErrConstraintForeignKey:
			return ViolationReference, true
		}
	}
	return "", false
}
