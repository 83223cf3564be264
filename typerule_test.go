package optinit

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfType(t *testing.T) {
	require.NoError(t, Of[string]().Validate("a"))
	require.EqualError(t, Of[string]().Validate(1), "must be string, got int")
	require.NoError(t, Of[*int]().Validate(nil))
	require.EqualError(t, Of[int]().Validate(nil), "must be int, got nil")
	require.NoError(t, Of[error]().Validate(assert.AnError))
	require.NoError(t, OfType(reflect.TypeFor[float64]()).Validate(1.5))
	assert.Equal(t, "string", Of[string]().String())
}

func TestAny(t *testing.T) {
	for _, v := range []any{nil, 1, "x", []any{}, Callback(nil)} {
		require.NoError(t, Any.Validate(v))
	}
}

func TestUnion(t *testing.T) {
	u := Union(reflect.TypeFor[string](), Of[int]())
	require.NoError(t, u.Validate("x"))
	require.NoError(t, u.Validate(1))
	require.EqualError(t, u.Validate(1.5), "must be string | int, got float64")

	wider := u.Or(Of[float64]())
	require.NoError(t, wider.Validate(1.5))
	require.Error(t, u.Validate(1.5), "Or must not modify the receiver")
	assert.Len(t, u.Members(), 2)
	assert.Len(t, wider.Members(), 3)

	nested := Union(u, Of[bool]())
	assert.Len(t, nested.Members(), 3)

	withEnum := Union(Of[int](), OneOf("auto"))
	require.NoError(t, withEnum.Validate("auto"))
	require.Error(t, withEnum.Validate("manual"))
}

func TestUnionInvalidMember(t *testing.T) {
	_, err := compileType("k", Union("string"))
	require.ErrorIs(t, err, ErrRegistration)

	_, err = compileType("k", Union(Of[int]()).Or(42))
	require.ErrorIs(t, err, ErrRegistration)

	_, err = compileType("k", Union())
	require.ErrorIs(t, err, ErrRegistration)

	_, err = compileType("k", Union(OfType(nil)))
	require.ErrorIs(t, err, ErrRegistration)

	_, err = compileType("k", Union(reflect.Type(nil)))
	require.ErrorIs(t, err, ErrRegistration)

	_, err = compileType("k", Union(Of[int](), OneOf()))
	require.ErrorIs(t, err, ErrRegistration)
	assert.ErrorContains(t, err, "empty value set")

	_, err = compileType("k", Tuple(Union(OfType(nil))))
	require.ErrorIs(t, err, ErrRegistration)
}

func TestOneOf(t *testing.T) {
	r := OneOf("a", "b")
	require.NoError(t, r.Validate("a"))
	require.EqualError(t, r.Validate("c"), "must be one of 'a', 'b' got 'c'")
	require.Error(t, r.Validate(""))
	require.Error(t, r.Validate(nil))

	require.NoError(t, OneOf("", "a").Validate(""))
	require.Error(t, OneOf(1, 2).Validate(0))
	require.NoError(t, OneOf(1, 2).Validate(2))

	five := 5
	require.Error(t, OneOf(5).Validate(&five))
	require.NoError(t, OneOf(5).Validate(5))
	require.NoError(t, OneOf(&five).Validate(&five))
	assert.Equal(t, []any{"a", "b"}, r.Values())

	_, err := compileType("k", OneOf())
	require.ErrorIs(t, err, ErrRegistration)
	assert.ErrorContains(t, err, "empty value set")
}

func TestTuple(t *testing.T) {
	tr := Tuple(Of[string](), reflect.TypeFor[int]())
	require.NoError(t, tr.Validate([]any{"a", 1}))
	require.Error(t, tr.Validate([]any{"a"}))
	require.Error(t, tr.Validate("a"))
	err := tr.Validate([]any{1, 1})
	require.Error(t, err)
	assert.ErrorContains(t, err, "element 0")
	assert.Equal(t, "[string, int]", tr.String())
	assert.Equal(t, 2, tr.Len())

	_, err = compileType("k", Tuple("int"))
	require.ErrorIs(t, err, ErrRegistration)

	_, err = compileType("k", Tuple())
	require.ErrorIs(t, err, ErrRegistration)
}

func TestCompileType(t *testing.T) {
	r, err := compileType("k", nil)
	require.NoError(t, err)
	assert.Equal(t, Any, r)

	r, err = compileType("k", reflect.TypeFor[int]())
	require.NoError(t, err)
	assert.Equal(t, "int", r.String())

	r, err = compileType("k", []any{reflect.TypeFor[int](), Of[int]()})
	require.NoError(t, err)
	tr, ok := r.(*TupleRule)
	require.True(t, ok)
	assert.Equal(t, 2, tr.Len())

	r, err = compileType("k", []TypeRule{Of[int]()})
	require.NoError(t, err)
	assert.IsType(t, &TupleRule{}, r)

	_, err = compileType("k", OfType(nil))
	require.ErrorIs(t, err, ErrRegistration)

	_, err = compileType("k", "int")
	require.ErrorIs(t, err, ErrRegistration)
}
