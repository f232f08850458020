package core

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorKind classifies failures so the boundary can choose a status code
// without inspecting messages.
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindInvalidArgument
	KindNotFound
	KindConstraint
	KindConflict
	KindConfiguration
	KindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConstraint:
		return "CONSTRAINT"
	case KindConflict:
		return "CONFLICT"
	case KindConfiguration:
		return "CONFIGURATION"
	case KindUnsupported:
		return "UNSUPPORTED"
	default:
		return "UNEXPECTED"
	}
}

// Error is a classified failure returned by the engines.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

func InvalidArgumentf(format string, args ...any) error {
	return newError(KindInvalidArgument, nil, format, args...)
}

func NotFoundf(format string, args ...any) error {
	return newError(KindNotFound, nil, format, args...)
}

func Constraintf(cause error, format string, args ...any) error {
	return newError(KindConstraint, cause, format, args...)
}

func Conflictf(cause error, format string, args ...any) error {
	return newError(KindConflict, cause, format, args...)
}

func Configurationf(format string, args ...any) error {
	return newError(KindConfiguration, nil, format, args...)
}

func Unsupportedf(cause error, format string, args ...any) error {
	return newError(KindUnsupported, cause, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindUnexpected when there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// PostgreSQL SQLSTATE codes the engines translate.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgUndefinedColumn     = "42703"
)

// classifyPgError converts a driver error into a typed failure. refMsg is
// the caller-facing message used for referential violations; op describes
// the statement for the generic wrap.
func classifyPgError(err error, op, refMsg string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return Constraintf(err, "%s", refMsg)
		case pgUniqueViolation:
			return Conflictf(err, "duplicate value violates %s", pgErr.ConstraintName)
		case pgCheckViolation:
			return newError(KindInvalidArgument, err, "value violates %s", pgErr.ConstraintName)
		case pgUndefinedColumn:
			return Unsupportedf(err, "%s is not supported by this schema", op)
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
