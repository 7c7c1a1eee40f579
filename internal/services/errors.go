package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrConflict      = errors.New("conflict")
	ErrAuthorization = errors.New("not authorized")
	ErrNotFound      = errors.New("not found")
	ErrStorage       = errors.New("storage failure")
)

// Error is the concrete error returned by every service operation
type Error struct {
	Kind    error
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(e.Kind.Error())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Kind }

func validationError(op, format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

func conflictError(op, format string, args ...interface{}) error {
	return &Error{Kind: ErrConflict, Op: op, Message: fmt.Sprintf(format, args...)}
}

func authorizationError(op, format string, args ...interface{}) error {
	return &Error{Kind: ErrAuthorization, Op: op, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(op, format string, args ...interface{}) error {
	return &Error{Kind: ErrNotFound, Op: op, Message: fmt.Sprintf(format, args...)}
}

// storageError wraps err unless it already carries a kind
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	return &Error{Kind: ErrStorage, Op: op, Err: err}
}

// lookupError maps a missing row to NotFound and anything else to Storage
func lookupError(op, what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundError(op, "%s not found", what)
	}
	return storageError(op, err)
}

// isDuplicateKey reports whether err is a unique-constraint violation from
// PostgreSQL or SQLite
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Message returns the user-facing message carried by a service error
func Message(err error) string {
	var typed *Error
	if errors.As(err, &typed) && typed.Message != "" {
		return typed.Message
	}
	return err.Error()
}
