package seeder

import (
	"errors"
	"fmt"
)

var (
	ErrCircularDependency = errors.New("circular dependency")
	ErrIntegrity          = errors.New("integrity error")
	ErrSchema             = errors.New("schema error")
	ErrExhaustion         = errors.New("exhaustion error")
	ErrInvalidConfig      = errors.New("invalid config")
)

// Error is returned for every generation failure. Kind is one of the
// sentinel errors above so callers can match it with errors.Is.
type Error struct {
	Kind  error
	Table string
	Msg   string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, table, format string, args ...any) error {
	return &Error{Kind: kind, Table: table, Msg: fmt.Sprintf(format, args...)}
}

func integrityf(table, format string, args ...any) error {
	return newError(ErrIntegrity, table, format, args...)
}

func schemaf(table, format string, args ...any) error {
	return newError(ErrSchema, table, format, args...)
}

func configf(format string, args ...any) error {
	return newError(ErrInvalidConfig, "", format, args...)
}

// IsCircular reports whether err was caused by a dependency cycle.
func IsCircular(err error) bool { return errors.Is(err, ErrCircularDependency) }

// IsIntegrity reports whether err was caused by a missing or empty target table.
func IsIntegrity(err error) bool { return errors.Is(err, ErrIntegrity) }

// IsSchema reports whether err was caused by a missing field.
func IsSchema(err error) bool { return errors.Is(err, ErrSchema) }

// IsExhaustion reports whether err was caused by a drained cross join pool.
func IsExhaustion(err error) bool { return errors.Is(err, ErrExhaustion) }
