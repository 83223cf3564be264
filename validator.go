package optinit

import (
	"fmt"
	"reflect"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	errorType = reflect.TypeFor[error]()
	keyType   = reflect.TypeFor[Key]()
)

// DeclareKeyValidator adds a validator for one option. fn is a KeyValidator,
// an ozzo validation.Rule (every Rule in this package is one), or a function
// of exactly one parameter returning an error or nothing. A parameter of a
// concrete type rejects values of any other type.
//
// Validators accumulate: all validators of a key run in declaration order.
func (t *Type[T]) DeclareKeyValidator(key Key, fn any) error {
	if key == "" {
		return errorf(ErrRegistration, "", "empty option key")
	}
	v, err := keyValidator(key, fn)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.keyValidators[key] = append(t.keyValidators[key], v)
	if r, ok := fn.(Rule); ok {
		t.docs[key] = append(t.docs[key], r)
	}
	t.log().Debug("key validator declared", "key", key, "count", len(t.keyValidators[key]))
	return nil
}

// DeclareValidator adds a validator that runs for every option after the
// option's own validators. fn is a GenericValidator or a function of exactly
// two parameters (key, value) returning an error or nothing; the key
// parameter is a Key or a string.
func (t *Type[T]) DeclareValidator(fn any) error {
	v, err := genericValidator(fn)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.validators = append(t.validators, v)
	t.log().Debug("validator declared", "count", len(t.validators))
	return nil
}

func keyValidator(key Key, fn any) (KeyValidator, error) {
	switch f := fn.(type) {
	case nil:
		return nil, errorf(ErrRegistration, key, "validator must be given")
	case KeyValidator:
		if f == nil {
			return nil, errorf(ErrRegistration, key, "validator must be given")
		}
		return f, nil
	case func(any) error:
		if f == nil {
			return nil, errorf(ErrRegistration, key, "validator must be given")
		}
		return f, nil
	case validation.Rule:
		return f.Validate, nil
	}

	call, err := reflectValidator(key, fn, 1)
	if err != nil {
		return nil, err
	}
	return func(value any) error {
		return call(value)
	}, nil
}

func genericValidator(fn any) (GenericValidator, error) {
	switch f := fn.(type) {
	case nil:
		return nil, errorf(ErrRegistration, "", "validator must be given")
	case GenericValidator:
		if f == nil {
			return nil, errorf(ErrRegistration, "", "validator must be given")
		}
		return f, nil
	case func(Key, any) error:
		if f == nil {
			return nil, errorf(ErrRegistration, "", "validator must be given")
		}
		return f, nil
	}

	call, err := reflectValidator("", fn, 2)
	if err != nil {
		return nil, err
	}
	return func(key Key, value any) error {
		return call(key, value)
	}, nil
}

// reflectValidator adapts an arbitrary validator function once, at
// declaration time. Its last parameter receives the value; a two-parameter
// validator receives the key first.
func reflectValidator(key Key, fn any, arity int) (func(args ...any) error, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, errorf(ErrRegistration, key, "validator must be a function, got %s", typeName(fn))
	}
	ft := rv.Type()
	if ft.IsVariadic() || ft.NumIn() != arity {
		return nil, errorf(ErrRegistration, key, "invalid validator arity (expected: %d, got %d)", arity, ft.NumIn())
	}
	switch {
	case ft.NumOut() == 0:
	case ft.NumOut() == 1 && ft.Out(0) == errorType:
	default:
		return nil, errorf(ErrRegistration, key, "validator must return error or nothing, got %s", ft)
	}
	if arity == 2 {
		if kt := ft.In(0); kt.Kind() != reflect.String && kt != keyType && kt.Kind() != reflect.Interface {
			return nil, errorf(ErrRegistration, key, "validator key parameter must be a string, got %s", kt)
		}
	}

	return func(args ...any) error {
		in := make([]reflect.Value, len(args))
		for i, a := range args {
			pt := ft.In(i)
			switch {
			case a == nil && assignable(nil, pt):
				in[i] = reflect.Zero(pt)
			case a == nil:
				return mismatch(pt.String(), a)
			case reflect.TypeOf(a).AssignableTo(pt):
				in[i] = reflect.ValueOf(a)
			case reflect.TypeOf(a).ConvertibleTo(pt) && reflect.TypeOf(a).Kind() == reflect.String && pt.Kind() == reflect.String:
				in[i] = reflect.ValueOf(a).Convert(pt)
			default:
				return mismatch(pt.String(), a)
			}
		}
		out := rv.Call(in)
		if len(out) == 0 || out[0].IsNil() {
			return nil
		}
		return out[0].Interface().(error)
	}, nil
}

// runValidators invokes the key's validators, then the generic validators,
// stopping at the first failure.
func (t *Type[T]) runValidators(key Key, value any) error {
	t.mu.RLock()
	keyed := t.keyValidators[key]
	generic := t.validators
	t.mu.RUnlock()

	for _, v := range keyed {
		if err := v(value); err != nil {
			return newError(ErrValidation, key, err)
		}
	}
	for _, v := range generic {
		if err := v(key, value); err != nil {
			return newError(ErrValidation, key, err)
		}
	}
	return nil
}

func (t *Type[T]) String() string {
	return fmt.Sprintf("optinit.Type[%s]", t.Name())
}
