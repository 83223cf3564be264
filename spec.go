package optinit

import (
	"fmt"
	"reflect"
	"slices"
)

// Spec declares one option. Arity is an arity token (nil, a positive
// integer, Range, Variadic, CallbackOnly or an Arity); Type is a type token
// (nil, a reflect.Type, a TypeRule, or a slice of leaf types for a tuple).
type Spec struct {
	Key         Key
	Arity       any
	Type        any
	Description string

	err error
}

// Option builds a Spec for key from up to one arity token and one type
// token, in any order:
//
//	optinit.Option("size", 2)
//	optinit.Option("name", optinit.Of[string]())
//	optinit.Option("point", optinit.Range{Lo: 2, Hi: 3}, optinit.Of[float64]())
func Option(key Key, tokens ...any) Spec {
	s := Spec{Key: key}
	for _, tok := range tokens {
		if tok == nil {
			continue
		}
		if isArityToken(tok) {
			if s.Arity != nil {
				s.err = fmt.Errorf("more than one arity given")
				continue
			}
			s.Arity = tok
			continue
		}
		if s.Type != nil {
			s.err = fmt.Errorf("more than one type given")
			continue
		}
		s.Type = tok
	}
	return s
}

// Describe returns a copy of s documented with desc.
func (s Spec) Describe(desc string) Spec {
	s.Description = desc
	return s
}

// OptionSpec is a compiled, installed option spec.
type OptionSpec struct {
	Key         Key
	Arity       Arity
	Type        TypeRule
	Description string
}

func (s OptionSpec) String() string {
	return fmt.Sprintf("%s(%s, %s)", s.Key, s.Arity, s.Type)
}

// Declare installs option specs. Items are bare keys (Key or string, with
// Single arity and no type constraint), Spec values, or maps from key to an
// arity-or-type token; map entries are declared in sorted key order.
//
// Re-declaring a key with an identical spec is a no-op; a different spec
// replaces the old one. Declaration stops at the first invalid item and
// keeps what was installed before it.
func (t *Type[T]) Declare(items ...any) error {
	for _, item := range items {
		specs, err := expandSpecs(item)
		if err != nil {
			return err
		}
		for _, s := range specs {
			if err := t.declare(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeclareDelegating is Declare followed by enabling delegation.
func (t *Type[T]) DeclareDelegating(items ...any) error {
	if err := t.Declare(items...); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.delegate {
		t.delegate = true
		t.log().Debug("delegation enabled")
	}
	return nil
}

func expandSpecs(item any) ([]Spec, error) {
	switch it := item.(type) {
	case Key:
		return []Spec{{Key: it}}, nil
	case string:
		return []Spec{{Key: Key(it)}}, nil
	case Spec:
		return []Spec{it}, nil
	case []Spec:
		return it, nil
	case map[Key]any:
		return mappedSpecs(it), nil
	case Options:
		return mappedSpecs(it), nil
	case map[string]any:
		m := make(map[Key]any, len(it))
		for k, v := range it {
			m[Key(k)] = v
		}
		return mappedSpecs(m), nil
	}
	return nil, errorf(ErrRegistration, "", "cannot declare %s", typeName(item))
}

func mappedSpecs(m map[Key]any) []Spec {
	keys := make([]Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]Spec, 0, len(keys))
	for _, k := range keys {
		if s, ok := m[k].(Spec); ok {
			s.Key = k
			out = append(out, s)
			continue
		}
		out = append(out, Option(k, m[k]))
	}
	return out
}

// compileSpec validates s and resolves its arity and type rule.
func compileSpec(s Spec) (OptionSpec, error) {
	if s.Key == "" {
		return OptionSpec{}, errorf(ErrRegistration, "", "empty option key")
	}
	if s.err != nil {
		return OptionSpec{}, newError(ErrRegistration, s.Key, s.err)
	}

	rule, err := compileType(s.Key, s.Type)
	if err != nil {
		return OptionSpec{}, err
	}

	tuple, isTuple := rule.(*TupleRule)
	var arity Arity
	switch {
	case isTuple && s.Arity == nil:
		arity = Arity{kind: ArityKindExact, lo: tuple.Len(), hi: tuple.Len(), tuple: true}
	case isTuple:
		arity, err = compileArity(s.Key, s.Arity)
		if err != nil {
			return OptionSpec{}, err
		}
		if arity.Min() != tuple.Len() || arity.Max() != tuple.Len() || arity.kind == ArityKindCallback {
			return OptionSpec{}, errorf(ErrRegistration, s.Key, "arity %s does not match tuple of %d", arity, tuple.Len())
		}
		arity = Arity{kind: ArityKindExact, lo: tuple.Len(), hi: tuple.Len(), tuple: true}
	default:
		arity, err = compileArity(s.Key, s.Arity)
		if err != nil {
			return OptionSpec{}, err
		}
	}

	if arity.kind == ArityKindCallback && rule != Any {
		return OptionSpec{}, errorf(ErrRegistration, s.Key, "callback option cannot have type %s", rule)
	}

	return OptionSpec{
		Key:         s.Key,
		Arity:       arity,
		Type:        rule,
		Description: s.Description,
	}, nil
}

func (t *Type[T]) declare(s Spec) error {
	spec, err := compileSpec(s)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	old, exists := t.specs[spec.Key]
	if exists && reflect.DeepEqual(old.OptionSpec, spec) {
		t.log().Debug("option unchanged", "key", spec.Key)
		return nil
	}

	t.specs[spec.Key] = &installedSpec[T]{
		OptionSpec: spec,
		handler:    t.handlerFor(spec),
	}
	if exists {
		t.log().Debug("option replaced", "key", spec.Key, "spec", spec)
		return nil
	}
	t.order = append(t.order, spec.Key)
	t.log().Debug("option declared", "key", spec.Key, "spec", spec)
	return nil
}

// handlerFor generates the entry point shared by Type.With and Builder.With
// for one option.
func (t *Type[T]) handlerFor(spec OptionSpec) func(Builder[T], []any, Callback) Builder[T] {
	return func(b Builder[T], args []any, cb Callback) Builder[T] {
		v, err := spec.Arity.resolve(spec.Key, args, cb)
		if err != nil {
			return b.fail(err)
		}
		if err := t.check(&spec, spec.Key, v); err != nil {
			return b.fail(err)
		}
		return b.set(spec.Key, v)
	}
}
