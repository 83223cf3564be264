package optinit_test

import (
	"testing"

	"github.com/Gobd/optinit"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	docHost    struct{}
	docBadRule struct{}
)

func TestSchema(t *testing.T) {
	typ := optinit.Define[docHost](nil, optinit.WithName("Doc"))
	require.NoError(t, typ.Declare(
		optinit.Option("name", optinit.Of[string]()).Describe("Display name."),
		optinit.Option("size", 2, optinit.Of[int]()),
		optinit.Option("tags", optinit.Variadic, optinit.Of[string]()),
		optinit.Option("point", optinit.Range{Lo: 2, Hi: 3}, optinit.Of[float64]()),
		optinit.Option("birthday", optinit.Tuple(optinit.Of[int](), optinit.Of[int](), optinit.Of[int]())),
		optinit.Option("mode", optinit.OneOf("a", "b")),
		optinit.Option("value", optinit.Union(optinit.Of[string](), optinit.Of[int]())),
		optinit.Option("on", optinit.CallbackOnly),
		optinit.Option("free"),
	))
	require.NoError(t, typ.DeclareKeyValidator("name", optinit.Required))
	require.NoError(t, typ.DeclareKeyValidator("name", optinit.Length(1, 10)))
	require.NoError(t, typ.DeclareKeyValidator("name", optinit.Example("Ann")))
	require.NoError(t, typ.DeclareKeyValidator("tags", optinit.Unique()))
	require.NoError(t, typ.DeclareKeyValidator("free", optinit.Deprecated()))
	require.NoError(t, typ.DeclareKeyValidator("free", optinit.Default(3)))

	ref, err := typ.Schema()
	require.NoError(t, err)
	s := ref.Value
	assert.Equal(t, "Doc", s.Title)
	assert.True(t, s.Type.Is(openapi3.TypeObject))
	assert.Equal(t, []string{"name"}, s.Required)
	require.Len(t, s.Properties, 9)

	name := s.Properties["name"].Value
	assert.True(t, name.Type.Is(openapi3.TypeString))
	assert.Equal(t, "Display name.", name.Description)
	assert.Equal(t, uint64(1), name.MinLength)
	require.NotNil(t, name.MaxLength)
	assert.Equal(t, uint64(10), *name.MaxLength)
	assert.Equal(t, "Ann", name.Example)

	size := s.Properties["size"].Value
	assert.True(t, size.Type.Is(openapi3.TypeArray))
	assert.True(t, size.Items.Value.Type.Is(openapi3.TypeInteger))
	assert.Equal(t, uint64(2), size.MinItems)
	require.NotNil(t, size.MaxItems)
	assert.Equal(t, uint64(2), *size.MaxItems)

	tags := s.Properties["tags"].Value
	assert.True(t, tags.Type.Is(openapi3.TypeArray))
	assert.True(t, tags.Items.Value.Type.Is(openapi3.TypeString))
	assert.Equal(t, uint64(0), tags.MinItems)
	assert.Nil(t, tags.MaxItems)
	assert.True(t, tags.UniqueItems)

	point := s.Properties["point"].Value
	assert.True(t, point.Items.Value.Type.Is(openapi3.TypeNumber))
	assert.Equal(t, uint64(2), point.MinItems)
	assert.Equal(t, uint64(3), *point.MaxItems)

	birthday := s.Properties["birthday"].Value
	assert.True(t, birthday.Type.Is(openapi3.TypeArray))
	assert.Equal(t, uint64(3), birthday.MinItems)
	assert.Equal(t, uint64(3), *birthday.MaxItems)
	assert.Len(t, birthday.Items.Value.OneOf, 3)

	assert.Equal(t, []any{"a", "b"}, s.Properties["mode"].Value.Enum)
	assert.Len(t, s.Properties["value"].Value.OneOf, 2)
	assert.Equal(t, "callback", s.Properties["on"].Value.Format)

	free := s.Properties["free"].Value
	assert.True(t, free.Deprecated)
	assert.Equal(t, 3, free.Default)
}

func TestSchemaRuleError(t *testing.T) {
	typ := optinit.Define[docBadRule](nil)
	require.NoError(t, typ.Declare("n"))
	require.NoError(t, typ.DeclareKeyValidator("n", optinit.Min("ten")))

	_, err := typ.Schema()
	require.Error(t, err)
}
