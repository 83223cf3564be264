package optinit

import (
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
)

type (
	// Key names one construction option.
	Key string

	// Options is a plain option map that has not been validated.
	Options map[Key]any

	// Callback is the block-like value an option may receive instead of, or
	// as its only, argument. A trailing Callback passed to With or New is
	// always read as the callback.
	Callback func(args ...any) (any, error)

	// KeyValidator checks the value of one option.
	KeyValidator func(value any) error

	// GenericValidator checks every option; it sees the key and the value.
	GenericValidator func(key Key, value any) error

	// Rule is a key validator that can also document itself in an OpenAPI
	// schema. The helpers in this package (Required, Length, Min, ...) are
	// Rules; any ozzo validation.Rule is accepted as a key validator too.
	Rule interface {
		Validate(value any) error
		Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error
	}

	// Constructor builds a host instance from the remaining positional
	// arguments, the validated option map and the callback (nil when none
	// was given).
	Constructor[T any] func(args []any, opts ValidatedOptions, cb Callback) (T, error)

	// Operation is an instance operation of a host type that builders may
	// delegate to.
	Operation[T any] func(inst T, args ...any) (any, error)
)

var callbackType = reflect.TypeFor[Callback]()

// asCallback accepts a Callback or a plain function of the same signature.
func asCallback(v any) (Callback, bool) {
	switch cb := v.(type) {
	case Callback:
		return cb, cb != nil
	case func(...any) (any, error):
		return cb, cb != nil
	}
	return nil, false
}
