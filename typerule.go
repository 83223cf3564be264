package optinit

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TypeRule constrains the type or shape of an option's value. Every TypeRule
// is also an ozzo validation.Rule.
type TypeRule interface {
	Validate(value any) error
	Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error
	String() string
}

// Any places no constraint on a value.
var Any TypeRule = anyRule{}

type anyRule struct{}

func (anyRule) Validate(any) error { return nil }

func (anyRule) Describe(string, *openapi3.Schema, *openapi3.SchemaRef) error { return nil }

func (anyRule) String() string { return "any" }

// OfType returns a rule accepting values assignable to t.
func OfType(t reflect.Type) TypeRule {
	return typeRule{t: t}
}

// Of returns a rule accepting values assignable to T.
func Of[T any]() TypeRule {
	return typeRule{t: reflect.TypeFor[T]()}
}

type typeRule struct {
	t reflect.Type
}

func (r typeRule) Validate(value any) error {
	if !assignable(value, r.t) {
		return mismatch(r.String(), value)
	}
	return nil
}

func (r typeRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	mergeSchema(ref.Value, schemaForType(r.t))
	return nil
}

func (r typeRule) String() string {
	if r.t == nil {
		return "<nil type>"
	}
	return r.t.String()
}

// assignable reports whether v may be stored in a variable of type t.
// A nil value only fits types that can hold nil.
func assignable(v any, t reflect.Type) bool {
	if v == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return true
		}
		return false
	}
	return reflect.TypeOf(v).AssignableTo(t)
}

// UnionRule accepts a value satisfying at least one of its members.
type UnionRule struct {
	members []TypeRule
	err     error
}

// Union returns a rule accepting values of any of the given members. Members
// are reflect.Type values or OfType, OneOf and Union rules; nested unions are
// flattened. Invalid members are reported when the union is declared.
func Union(members ...any) *UnionRule {
	return (&UnionRule{}).Or(members...)
}

// Or returns a new union extended with members. u is left unchanged.
func (u *UnionRule) Or(members ...any) *UnionRule {
	out := &UnionRule{
		members: append([]TypeRule{}, u.members...),
		err:     u.err,
	}
	for i, m := range members {
		if r, ok := m.(*UnionRule); ok {
			if r.err != nil && out.err == nil {
				out.err = r.err
			}
			out.members = append(out.members, r.members...)
			continue
		}
		leaf, err := tupleLeaf(m)
		if err != nil {
			if out.err == nil {
				out.err = fmt.Errorf("union member %d: %w", len(u.members)+i, err)
			}
			continue
		}
		out.members = append(out.members, leaf)
	}
	return out
}

// Members returns the flattened members of u.
func (u *UnionRule) Members() []TypeRule {
	return append([]TypeRule{}, u.members...)
}

// Validate implements TypeRule.
func (u *UnionRule) Validate(value any) error {
	for _, m := range u.members {
		if m.Validate(value) == nil {
			return nil
		}
	}
	return mismatch(u.String(), value)
}

// Describe documents u as a oneOf schema.
func (u *UnionRule) Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error {
	refs := make(openapi3.SchemaRefs, 0, len(u.members))
	for _, m := range u.members {
		mr := openapi3.NewSchemaRef("", openapi3.NewSchema())
		if err := m.Describe(name, schema, mr); err != nil {
			return err
		}
		refs = append(refs, mr)
	}
	ref.Value.OneOf = refs
	return nil
}

func (u *UnionRule) String() string {
	parts := make([]string, len(u.members))
	for i, m := range u.members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// OneOfRule accepts only the listed discrete values, compared with
// reflect.DeepEqual.
type OneOfRule struct {
	validation.InRule
	values []any
	err    validation.Error
}

// OneOf returns a rule accepting only the given values. An empty set is
// rejected when the rule is declared.
func OneOf(values ...any) *OneOfRule {
	want := make([]string, len(values))
	for i := range values {
		want[i] = fmt.Sprintf("'%v'", values[i])
	}
	err := validation.ErrInInvalid.SetMessage(fmt.Sprintf("must be one of %s", strings.Join(want, ", ")))
	return &OneOfRule{
		InRule: validation.In(values...).ErrorObject(err),
		values: values,
		err:    err,
	}
}

// Values returns the accepted values.
func (r *OneOfRule) Values() []any {
	return append([]any{}, r.values...)
}

// Validate implements TypeRule. Unlike ozzo's In rule, values are not
// dereferenced and empty values are only accepted when they are listed.
func (r *OneOfRule) Validate(value any) error {
	if !r.has(value) {
		return r.reject(value)
	}
	return nil
}

func (r *OneOfRule) has(value any) bool {
	for _, v := range r.values {
		if reflect.DeepEqual(v, value) {
			return true
		}
	}
	return false
}

func (r *OneOfRule) reject(value any) error {
	return fmt.Errorf("%w got '%v'", r.err, value)
}

// Describe documents the accepted values as an enum.
func (r *OneOfRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Enum = r.Values()
	return nil
}

func (r *OneOfRule) String() string {
	want := make([]string, len(r.values))
	for i := range r.values {
		want[i] = fmt.Sprintf("'%v'", r.values[i])
	}
	return "one of " + strings.Join(want, ", ")
}

// TupleRule accepts an ordered sequence whose elements satisfy the
// positional rules.
type TupleRule struct {
	rules []TypeRule
	err   error
}

// Tuple returns a positional rule. Elements are reflect.Type values or
// OfType, OneOf and Union rules; anything else is reported when the tuple is
// declared.
func Tuple(rules ...any) *TupleRule {
	t := &TupleRule{rules: make([]TypeRule, 0, len(rules))}
	for i, r := range rules {
		leaf, err := tupleLeaf(r)
		if err != nil {
			if t.err == nil {
				t.err = fmt.Errorf("tuple element %d: %w", i, err)
			}
			continue
		}
		t.rules = append(t.rules, leaf)
	}
	return t
}

func tupleLeaf(r any) (TypeRule, error) {
	switch l := r.(type) {
	case reflect.Type:
		if l == nil {
			return nil, fmt.Errorf("nil type")
		}
		return OfType(l), nil
	case typeRule:
		if l.t == nil {
			return nil, fmt.Errorf("nil type")
		}
		return l, nil
	case *OneOfRule:
		if len(l.values) == 0 {
			return nil, fmt.Errorf("empty value set")
		}
		return l, nil
	case *UnionRule:
		if l.err != nil {
			return nil, l.err
		}
		if len(l.members) == 0 {
			return nil, fmt.Errorf("empty union")
		}
		return l, nil
	}
	return nil, fmt.Errorf("not a type (%s)", typeName(r))
}

// Len is the number of positions.
func (t *TupleRule) Len() int { return len(t.rules) }

// Validate implements TypeRule.
func (t *TupleRule) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Len() != len(t.rules) {
		return mismatch(t.String(), value)
	}
	for i, r := range t.rules {
		if err := r.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// Describe documents t as a fixed-length array.
func (t *TupleRule) Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error {
	items := make(openapi3.SchemaRefs, 0, len(t.rules))
	for _, r := range t.rules {
		ir := openapi3.NewSchemaRef("", openapi3.NewSchema())
		if err := r.Describe(name, schema, ir); err != nil {
			return err
		}
		items = append(items, ir)
	}
	ref.Value.Type = &openapi3.Types{openapi3.TypeArray}
	ref.Value.MinItems = uint64(len(t.rules))
	maxItems := uint64(len(t.rules))
	ref.Value.MaxItems = &maxItems
	if len(items) == 1 {
		ref.Value.Items = items[0]
	} else {
		ref.Value.Items = &openapi3.SchemaRef{Value: &openapi3.Schema{OneOf: items}}
	}
	return nil
}

func (t *TupleRule) String() string {
	parts := make([]string, len(t.rules))
	for i, r := range t.rules {
		parts[i] = r.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// compileType turns a declared type token into a TypeRule.
func compileType(key Key, token any) (TypeRule, error) {
	switch t := token.(type) {
	case nil:
		return Any, nil
	case reflect.Type:
		return OfType(t), nil
	case typeRule:
		if t.t == nil {
			return nil, errorf(ErrRegistration, key, "nil type")
		}
		return t, nil
	case *OneOfRule:
		if len(t.values) == 0 {
			return nil, errorf(ErrRegistration, key, "empty value set")
		}
		return t, nil
	case *UnionRule:
		if t.err != nil {
			return nil, newError(ErrRegistration, key, t.err)
		}
		if len(t.members) == 0 {
			return nil, errorf(ErrRegistration, key, "empty union")
		}
		return t, nil
	case *TupleRule:
		if t.err != nil {
			return nil, newError(ErrRegistration, key, t.err)
		}
		if len(t.rules) == 0 {
			return nil, errorf(ErrRegistration, key, "empty tuple")
		}
		return t, nil
	case []any:
		return compileType(key, Tuple(t...))
	case []reflect.Type:
		return compileType(key, Tuple(toAny(t)...))
	case []TypeRule:
		return compileType(key, Tuple(toAny(t)...))
	case TypeRule:
		return t, nil
	}
	return nil, errorf(ErrRegistration, key, "invalid type specification (%s)", typeName(token))
}

func toAny[S ~[]E, E any](s S) []any {
	out := make([]any, len(s))
	for i := range s {
		out[i] = s[i]
	}
	return out
}
