package optinit

import (
	"fmt"
	"reflect"
	"strconv"
)

// ArityKind enumerates the shapes an option's arguments can take.
type ArityKind int

const (
	// ArityKindSingle is the implicit default: one value, or one callback.
	ArityKindSingle ArityKind = iota
	// ArityKindExact requires exactly n positional values.
	ArityKindExact
	// ArityKindRange requires between lo and hi positional values.
	ArityKindRange
	// ArityKindVariadic accepts any number of positional values, including none.
	ArityKindVariadic
	// ArityKindCallback requires exactly one callback and no positional values.
	ArityKindCallback
)

// Marker is a symbolic arity token.
type Marker string

const (
	// Variadic declares an option collecting zero or more values.
	Variadic Marker = "variadic"
	// CallbackOnly declares an option whose only value is a callback.
	CallbackOnly Marker = "callback"
)

// Range is an arity token accepting between Lo and Hi values, inclusive.
type Range struct {
	Lo, Hi int
}

// Arity is a compiled arity rule.
type Arity struct {
	kind  ArityKind
	lo    int
	hi    int
	tuple bool
}

// Single returns the arity of options declared without an arity token.
func Single() Arity {
	return Arity{kind: ArityKindSingle, lo: 1, hi: 1}
}

// Exactly returns the arity of an option taking exactly n values.
// It is checked when the option is declared.
func Exactly(n int) Arity {
	return Arity{kind: ArityKindExact, lo: n, hi: n}
}

// Kind reports the shape of a.
func (a Arity) Kind() ArityKind { return a.kind }

// Min is the minimum number of positional values.
func (a Arity) Min() int {
	switch a.kind {
	case ArityKindVariadic, ArityKindCallback:
		return 0
	}
	return a.lo
}

// Max is the maximum number of positional values, or -1 when unbounded.
func (a Arity) Max() int {
	switch a.kind {
	case ArityKindVariadic:
		return -1
	case ArityKindCallback:
		return 0
	}
	return a.hi
}

// Tuple reports whether the value is always stored as a sequence because the
// option was declared with a tuple type rule.
func (a Arity) Tuple() bool { return a.tuple }

// scalar reports whether the resolved value is the lone argument rather
// than a sequence.
func (a Arity) scalar() bool {
	switch a.kind {
	case ArityKindSingle:
		return true
	case ArityKindExact:
		return a.lo == 1 && !a.tuple
	}
	return false
}

func (a Arity) String() string {
	switch a.kind {
	case ArityKindSingle:
		return "1"
	case ArityKindExact:
		return strconv.Itoa(a.lo)
	case ArityKindRange:
		return fmt.Sprintf("%d..%d", a.lo, a.hi)
	case ArityKindVariadic:
		return string(Variadic)
	case ArityKindCallback:
		return string(CallbackOnly)
	}
	return "unknown"
}

// isArityToken reports whether token should be read as an arity rather than
// a type. Floats count so that they are rejected as arities.
func isArityToken(token any) bool {
	switch token.(type) {
	case Arity, Marker, Range:
		return true
	}
	switch reflect.ValueOf(token).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// compileArity turns a declared arity token into an Arity.
func compileArity(key Key, token any) (Arity, error) {
	switch t := token.(type) {
	case nil:
		return Single(), nil
	case Arity:
		return checkArity(key, t)
	case Marker:
		switch t {
		case Variadic:
			return Arity{kind: ArityKindVariadic}, nil
		case CallbackOnly:
			return Arity{kind: ArityKindCallback}, nil
		}
		return Arity{}, errorf(ErrRegistration, key, "unknown arity marker %q", string(t))
	case Range:
		return checkArity(key, Arity{kind: ArityKindRange, lo: t.Lo, hi: t.Hi})
	}

	rv := reflect.ValueOf(token)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return checkArity(key, Exactly(int(rv.Int())))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return checkArity(key, Exactly(int(rv.Uint())))
	}
	return Arity{}, errorf(ErrRegistration, key, "invalid number of arguments specified (%v)", token)
}

func checkArity(key Key, a Arity) (Arity, error) {
	switch a.kind {
	case ArityKindSingle:
		return Single(), nil
	case ArityKindExact:
		if a.lo <= 0 {
			return Arity{}, errorf(ErrRegistration, key, "invalid number of arguments specified (%d)", a.lo)
		}
	case ArityKindRange:
		if a.lo < 0 || a.hi < a.lo {
			return Arity{}, errorf(ErrRegistration, key, "invalid argument range specified (%d..%d)", a.lo, a.hi)
		}
	case ArityKindVariadic, ArityKindCallback:
		a.lo, a.hi = 0, 0
	default:
		return Arity{}, errorf(ErrRegistration, key, "unknown arity kind %d", a.kind)
	}
	return a, nil
}

// resolve checks a builder call's arguments against a and returns the value
// to store for the option.
func (a Arity) resolve(key Key, args []any, cb Callback) (any, error) {
	n := len(args)
	switch a.kind {
	case ArityKindCallback:
		if cb == nil {
			return nil, errorf(ErrArity, key, "callback expected but not given")
		}
		if n > 0 {
			return nil, errorf(ErrArity, key, "only callback expected (%d values given)", n)
		}
		return cb, nil
	case ArityKindSingle:
		switch {
		case cb != nil && n == 0:
			return cb, nil
		case cb != nil:
			return nil, errorf(ErrArity, key, "wrong number of arguments (%d for 0 when callback given)", n)
		case n == 1:
			return args[0], nil
		}
		return nil, errorf(ErrArity, key, "wrong number of arguments (%d for 1)", n)
	case ArityKindVariadic:
		if cb != nil {
			return nil, errorf(ErrArity, key, "callback not expected")
		}
		return append([]any{}, args...), nil
	}

	if cb != nil {
		return nil, errorf(ErrArity, key, "callback not expected")
	}
	if n < a.lo || n > a.hi {
		return nil, errorf(ErrArity, key, "wrong number of arguments (%d for %s)", n, a)
	}
	if a.scalar() {
		return args[0], nil
	}
	return append([]any{}, args...), nil
}

// checkValue checks the shape of an already resolved value, as found in a
// raw option map.
func (a Arity) checkValue(key Key, v any) error {
	if a.kind == ArityKindCallback {
		if _, ok := asCallback(v); !ok {
			return errorf(ErrArity, key, "callback expected, got %s", typeName(v))
		}
		return nil
	}
	if a.scalar() {
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return errorf(ErrArity, key, "sequence of %s values expected, got %s", a, typeName(v))
	}
	n := rv.Len()
	if n < a.Min() || (a.Max() >= 0 && n > a.Max()) {
		return errorf(ErrArity, key, "wrong number of arguments (%d for %s)", n, a)
	}
	return nil
}
