package optinit

import (
	"reflect"
)

// New finalizes b into a host instance. A trailing Callback argument is the
// callback; a trailing raw option map (Options, map[Key]any, map[string]any
// or ValidatedOptions) is validated, laid over the accumulated options and
// removed from the positional arguments. The constructor receives the
// remaining arguments, the validated options and the callback.
func (b Builder[T]) New(args ...any) (T, error) {
	var zero T
	if b.err != nil {
		return zero, b.err
	}

	args, cb := splitCallback(args)
	opts := b.opts
	if n := len(args); n > 0 && isRawMap(args[n-1]) {
		vo, err := b.typ.ValidateOptions(args[n-1])
		if err != nil {
			return zero, err
		}
		opts = union(opts, vo.m)
		args = args[:n-1]
	} else {
		opts = union(opts, nil)
	}

	ctor := b.typ.constructor()
	if ctor == nil {
		return zero, errorf(ErrRegistration, "", "%s has no constructor", b.typ.Name())
	}
	return ctor(append([]any{}, args...), ValidatedOptions{m: opts}, cb)
}

// New finalizes an empty builder. See Builder.New.
func (t *Type[T]) New(args ...any) (T, error) {
	return t.Start().New(args...)
}

// Call dispatches name on b. A declared option behaves like With and returns
// the new Builder[T]. Otherwise, when delegation is enabled and the host type
// exposes an operation called name, b is finalized with no positional
// arguments and the operation is invoked on the instance. Any other name
// yields an *UnknownOperationError.
func (b Builder[T]) Call(name string, args ...any) (any, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.typ.Has(Key(name)) {
		next := b.With(Key(name), args...)
		if next.err != nil {
			return nil, next.err
		}
		return next, nil
	}

	op, ok := b.typ.operation(name)
	if !ok {
		return nil, &UnknownOperationError{Type: b.typ.Name(), Name: name}
	}
	inst, err := b.New()
	if err != nil {
		return nil, err
	}
	return op(inst, args...)
}

// Call dispatches name on an empty builder. See Builder.Call.
func (t *Type[T]) Call(name string, args ...any) (any, error) {
	return t.Start().Call(name, args...)
}

// Expose registers an instance operation builders may delegate to.
func (t *Type[T]) Expose(name string, op Operation[T]) error {
	if name == "" {
		return errorf(ErrRegistration, "", "empty operation name")
	}
	if op == nil {
		return errorf(ErrRegistration, Key(name), "operation must be given")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ops[name] = op
	t.log().Debug("operation exposed", "name", name)
	return nil
}

// ExposeMethods exposes every exported method in the method set of T.
func (t *Type[T]) ExposeMethods() error {
	rt := reflect.TypeFor[T]()
	for i := 0; i < rt.NumMethod(); i++ {
		name := rt.Method(i).Name
		err := t.Expose(name, func(inst T, args ...any) (any, error) {
			return callMethod(reflect.ValueOf(&inst).Elem(), name, args)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// operation returns the delegated operation name when delegation is enabled.
func (t *Type[T]) operation(name string) (Operation[T], bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.delegate {
		return nil, false
	}
	op, ok := t.ops[name]
	return op, ok
}

// callMethod invokes method name of v with args. A trailing error result
// becomes the returned error; one other result is returned as is, several
// are returned as a []any.
func callMethod(v reflect.Value, name string, args []any) (any, error) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, errorf(ErrUnknownOperation, Key(name), "nil instance")
		}
		v = v.Elem()
	}
	m := v.MethodByName(name)
	if !m.IsValid() {
		return nil, &UnknownOperationError{Type: v.Type().String(), Name: name}
	}

	mt := m.Type()
	n, fixed := len(args), mt.NumIn()
	if mt.IsVariadic() {
		fixed--
	}
	if n < fixed || (!mt.IsVariadic() && n > fixed) {
		return nil, errorf(ErrArity, Key(name), "wrong number of arguments (%d for %d)", n, fixed)
	}

	in := make([]reflect.Value, n)
	for i, a := range args {
		var pt reflect.Type
		if i >= fixed {
			pt = mt.In(mt.NumIn() - 1).Elem()
		} else {
			pt = mt.In(i)
		}
		if !assignable(a, pt) {
			return nil, newError(ErrType, Key(name), mismatch(pt.String(), a))
		}
		if a == nil {
			in[i] = reflect.Zero(pt)
		} else {
			in[i] = reflect.ValueOf(a)
		}
	}

	out := m.Call(in)
	var err error
	if k := len(out); k > 0 && mt.Out(k-1) == errorType {
		if !out[k-1].IsNil() {
			err = out[k-1].Interface().(error)
		}
		out = out[:k-1]
	}
	switch len(out) {
	case 0:
		return nil, err
	case 1:
		return out[0].Interface(), err
	}
	res := make([]any, len(out))
	for i := range out {
		res[i] = out[i].Interface()
	}
	return res, err
}
