package optinit

// Builder accumulates option values for a host type. Builders are immutable
// values: every call returns a new Builder and leaves the receiver as it was,
// so a Builder may be shared and extended from several places.
//
// Errors are sticky. The first failing call returns a Builder that carries
// the error and the options accumulated before it; further calls return it
// unchanged without validating anything, and New and Call report the error.
type Builder[T any] struct {
	typ  *Type[T]
	opts Options
	err  error
}

// Start returns an empty builder.
func (t *Type[T]) Start() Builder[T] {
	return Builder[T]{typ: t}
}

// With starts a builder holding one option. See Builder.With.
func (t *Type[T]) With(key Key, args ...any) Builder[T] {
	return t.Start().With(key, args...)
}

// Merge starts a builder from a raw option map. See Builder.Merge.
func (t *Type[T]) Merge(m any) Builder[T] {
	return t.Start().Merge(m)
}

// With sets option key from args, checked against the key's arity, type rule
// and validators. A trailing Callback argument is the callback.
func (b Builder[T]) With(key Key, args ...any) Builder[T] {
	if b.err != nil {
		return b
	}
	s, ok := b.typ.spec(key)
	if !ok {
		return b.fail(&UnknownOperationError{Type: b.typ.Name(), Name: string(key)})
	}
	args, cb := splitCallback(args)
	return s.handler(b, args, cb)
}

// Merge validates every entry of the raw option map m and lays it over the
// accumulated options; entries of m win.
func (b Builder[T]) Merge(m any) Builder[T] {
	if b.err != nil {
		return b
	}
	vo, err := b.typ.ValidateOptions(m)
	if err != nil {
		return b.fail(err)
	}
	return Builder[T]{typ: b.typ, opts: union(b.opts, vo.m)}
}

// Options returns a copy of the accumulated options.
func (b Builder[T]) Options() Options {
	return union(b.opts, nil)
}

// Get returns one accumulated option.
func (b Builder[T]) Get(key Key) (any, bool) {
	v, ok := b.opts[key]
	return v, ok
}

// Err returns the error of the first failed call, if any.
func (b Builder[T]) Err() error {
	return b.err
}

// Type returns the host type registry of b.
func (b Builder[T]) Type() *Type[T] {
	return b.typ
}

func (b Builder[T]) set(key Key, v any) Builder[T] {
	opts := make(Options, len(b.opts)+1)
	for k, val := range b.opts {
		opts[k] = val
	}
	opts[key] = v
	return Builder[T]{typ: b.typ, opts: opts}
}

func (b Builder[T]) fail(err error) Builder[T] {
	return Builder[T]{typ: b.typ, opts: b.opts, err: err}
}

// splitCallback separates a trailing callback from positional arguments.
func splitCallback(args []any) ([]any, Callback) {
	if n := len(args); n > 0 {
		if cb, ok := asCallback(args[n-1]); ok {
			return args[:n-1], cb
		}
	}
	return args, nil
}
