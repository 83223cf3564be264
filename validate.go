package optinit

import (
	"fmt"
	"reflect"
	"slices"
)

// Validate checks one option value: its shape against the declared arity,
// its type rule, then the key's validators and the generic validators, in
// declaration order. The first failure is returned. A ValidatedOptions value
// is accepted as is. Undeclared keys only run validators.
func (t *Type[T]) Validate(key Key, value any) error {
	if _, ok := value.(ValidatedOptions); ok {
		return nil
	}
	var spec *OptionSpec
	if s, ok := t.spec(key); ok {
		spec = &s.OptionSpec
	}
	return t.check(spec, key, value)
}

func (t *Type[T]) check(spec *OptionSpec, key Key, value any) error {
	if spec != nil {
		if err := spec.Arity.checkValue(key, value); err != nil {
			return err
		}
		if err := checkType(spec, value); err != nil {
			return newError(ErrType, key, err)
		}
	}
	return t.runValidators(key, value)
}

// checkType applies the type rule to a scalar value or a tuple, and to every
// element of any other sequence value.
func checkType(spec *OptionSpec, value any) error {
	if spec.Type == Any {
		return nil
	}
	if _, ok := spec.Type.(*TupleRule); ok || spec.Arity.scalar() || spec.Arity.kind == ArityKindCallback {
		return spec.Type.Validate(value)
	}
	rv := reflect.ValueOf(value)
	for i := 0; i < rv.Len(); i++ {
		if err := spec.Type.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// ValidateOptions validates every entry of an option map and returns it
// marked as validated. m is an Options, map[Key]any or map[string]any;
// entries are checked in sorted key order. A ValidatedOptions is returned
// unchanged without running any validator, so host constructors may call
// ValidateOptions on the map they receive at no cost.
func (t *Type[T]) ValidateOptions(m any) (ValidatedOptions, error) {
	if vo, ok := m.(ValidatedOptions); ok {
		return vo, nil
	}
	opts, ok := toOptions(m)
	if !ok {
		return ValidatedOptions{}, errorf(ErrType, "", "wrong argument type %s (expected map)", typeName(m))
	}

	keys := make([]Key, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := t.Validate(k, opts[k]); err != nil {
			return ValidatedOptions{}, err
		}
	}
	return ValidatedOptions{m: opts}, nil
}

// toOptions copies a raw option map into Options.
func toOptions(m any) (Options, bool) {
	var out Options
	switch raw := m.(type) {
	case Options:
		out = make(Options, len(raw))
		for k, v := range raw {
			out[k] = v
		}
	case map[Key]any:
		out = make(Options, len(raw))
		for k, v := range raw {
			out[k] = v
		}
	case map[string]any:
		out = make(Options, len(raw))
		for k, v := range raw {
			out[Key(k)] = v
		}
	default:
		return nil, false
	}
	return out, true
}

// isRawMap reports whether v is an option map New should merge.
func isRawMap(v any) bool {
	switch v.(type) {
	case ValidatedOptions, Options, map[Key]any, map[string]any:
		return true
	}
	return false
}
