package optinit

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrRegistration is returned when an option spec, type rule or validator
	// cannot be declared.
	ErrRegistration = errors.New("invalid option specification")
	// ErrArity is returned when an option receives the wrong number of values,
	// or a callback where none is allowed (and vice versa).
	ErrArity = errors.New("wrong number of arguments")
	// ErrType is returned when a value does not satisfy its type rule, or when
	// a non-map is handed to bulk validation.
	ErrType = errors.New("wrong argument type")
	// ErrValidation is returned when a declared validator rejects a value.
	ErrValidation = errors.New("invalid option value")
	// ErrUnknownOperation is returned when a name is neither a declared option
	// nor an operation the host type exposes.
	ErrUnknownOperation = errors.New("unknown operation")
)

// ErrTypeMismatch is the ozzo error object carried by type rule failures.
// Its params are "expected" and "actual".
var ErrTypeMismatch = validation.NewError("optinit_type_mismatch", "must be {{.expected}}, got {{.actual}}")

// Error describes a failure tied to one option key. Kind is one of the
// sentinel errors above; Err is the underlying cause, if any.
type Error struct {
	Kind error
	Key  Key
	Err  error
}

func newError(kind error, key Key, err error) *Error {
	return &Error{Kind: kind, Key: key, Err: err}
}

func errorf(kind error, key Key, format string, args ...any) *Error {
	return &Error{Kind: kind, Key: key, Err: fmt.Errorf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Key == "" && e.Err == nil:
		return e.Kind.Error()
	case e.Key == "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Key, e.Kind)
	default:
		return fmt.Sprintf("%s: %s: %s", e.Key, e.Kind, e.Err)
	}
}

// Unwrap exposes both the sentinel kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UnknownOperationError is returned by Call when name is neither a declared
// option nor a delegated operation of the host type.
type UnknownOperationError struct {
	Type string
	Name string
}

// Error implements the error interface.
func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("undefined operation %q for %s", e.Name, e.Type)
}

// Unwrap returns ErrUnknownOperation for errors.Is() compatibility.
func (e *UnknownOperationError) Unwrap() error {
	return ErrUnknownOperation
}

// mismatch builds a type rule failure naming what was expected and what arrived.
func mismatch(expected string, value any) error {
	return ErrTypeMismatch.SetParams(map[string]any{
		"expected": expected,
		"actual":   typeName(value),
	})
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
