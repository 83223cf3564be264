package optinit_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Gobd/optinit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name     string
	Birthday []any
	ID       int
}

type (
	finArgs    struct{ args []any }
	finNoCtor  struct{}
	finMarker  struct{ opts optinit.ValidatedOptions }
	finCtorErr struct{}
)

type greeter struct {
	name string
}

func (g greeter) Greet(punct string) string { return "hello " + g.name + punct }

func (g greeter) Join(sep string, parts ...string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}

func (g greeter) Pair() (string, int) { return g.name, len(g.name) }

func (g greeter) Fail() error { return fmt.Errorf("%s failed", g.name) }

type quiet struct{ n int }

func TestEndToEnd(t *testing.T) {
	people := optinit.Define[*person](func(_ []any, opts optinit.ValidatedOptions, _ optinit.Callback) (*person, error) {
		p := &person{}
		p.Name, _ = opts.Lookup("name", "").(string)
		p.Birthday, _ = opts.Lookup("birthday", []any(nil)).([]any)
		p.ID, _ = opts.Lookup("id", 0).(int)
		return p, nil
	})
	require.NoError(t, people.Declare(
		optinit.Option("name", optinit.Of[string]()),
		optinit.Option("birthday", optinit.Range{Lo: 1, Hi: 3}, optinit.Of[int]()),
		optinit.Option("id", optinit.Of[int]()),
	))

	var calls []string
	errBlank := errors.New("name must not be blank")
	require.NoError(t, people.DeclareKeyValidator("name", func(s string) error {
		calls = append(calls, "name")
		if s == "" {
			return errBlank
		}
		return nil
	}))
	require.NoError(t, people.DeclareKeyValidator("birthday", func(any) error {
		calls = append(calls, "birthday")
		return nil
	}))
	require.NoError(t, people.DeclareKeyValidator("id", func(any) error {
		calls = append(calls, "id")
		return nil
	}))

	p, err := people.With("name", "Ann").With("birthday", 1990, 1, 1).With("id", 7).New()
	require.NoError(t, err)
	assert.Equal(t, &person{Name: "Ann", Birthday: []any{1990, 1, 1}, ID: 7}, p)
	assert.Equal(t, []string{"name", "birthday", "id"}, calls)

	p, err = people.With("name", "Ann").With("birthday", 1990).New()
	require.NoError(t, err)
	assert.Equal(t, []any{1990}, p.Birthday)
	_, err = people.With("birthday", 1990, 1, 1, 1).New()
	require.ErrorIs(t, err, optinit.ErrArity)

	calls = nil
	p, err = people.With("name", "").With("birthday", 1990, 1, 1).With("id", 7).New()
	require.ErrorIs(t, err, optinit.ErrValidation)
	require.ErrorIs(t, err, errBlank)
	assert.Nil(t, p)
	assert.Equal(t, []string{"name"}, calls)
}

func TestNewWithRawMap(t *testing.T) {
	var got optinit.ValidatedOptions
	people := optinit.Define[finMarker](func(_ []any, opts optinit.ValidatedOptions, _ optinit.Callback) (finMarker, error) {
		got = opts
		return finMarker{opts: opts}, nil
	})
	require.NoError(t, people.Declare(optinit.Option("id", optinit.Of[int]()), "name"))

	_, err := people.With("name", "Ann").New(map[string]any{"id": 7})
	require.NoError(t, err)
	assert.Equal(t, optinit.Options{"name": "Ann", "id": 7}, got.Map())
	assert.Equal(t, []optinit.Key{"id", "name"}, got.Keys())

	_, err = people.With("id", 1).New(optinit.Options{"id": "x"})
	require.ErrorIs(t, err, optinit.ErrType)

	// Map entries win over accumulated options.
	_, err = people.With("id", 1).New(optinit.Options{"id": 2})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Lookup("id", 0))
}

func TestValidatedMarker(t *testing.T) {
	calls := 0
	var markers *optinit.Type[*finMarker]
	markers = optinit.Define[*finMarker](func(_ []any, opts optinit.ValidatedOptions, _ optinit.Callback) (*finMarker, error) {
		vo, err := markers.ValidateOptions(opts)
		if err != nil {
			return nil, err
		}
		return &finMarker{opts: vo}, nil
	})
	require.NoError(t, markers.Declare("a", "b"))
	require.NoError(t, markers.DeclareValidator(func(optinit.Key, any) error {
		calls++
		return nil
	}))

	m, err := markers.With("a", 1).With("b", 2).New()
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, m.opts.Len())

	require.NoError(t, markers.Validate("a", m.opts))
	assert.Equal(t, 2, calls)

	vo, err := markers.ValidateOptions(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	_, err = markers.New(vo)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestNewArgsAndCallback(t *testing.T) {
	var gotCb optinit.Callback
	typ := optinit.Define[finArgs](func(args []any, _ optinit.ValidatedOptions, cb optinit.Callback) (finArgs, error) {
		gotCb = cb
		return finArgs{args: args}, nil
	})

	cb := optinit.Callback(func(...any) (any, error) { return "done", nil })
	inst, err := typ.New(1, "two", optinit.Options{}, cb)
	require.NoError(t, err)
	assert.Equal(t, []any{1, "two"}, inst.args)
	require.NotNil(t, gotCb)
	res, _ := gotCb()
	assert.Equal(t, "done", res)

	inst, err = typ.New()
	require.NoError(t, err)
	assert.Empty(t, inst.args)
	assert.Nil(t, gotCb)
}

func TestNewWithoutConstructor(t *testing.T) {
	_, err := optinit.Define[finNoCtor](nil).New()
	require.ErrorIs(t, err, optinit.ErrRegistration)
}

func TestNewConstructorError(t *testing.T) {
	typ := optinit.Define[finCtorErr](func([]any, optinit.ValidatedOptions, optinit.Callback) (finCtorErr, error) {
		return finCtorErr{}, assert.AnError
	})
	_, err := typ.New()
	require.ErrorIs(t, err, assert.AnError)
}

func TestDelegation(t *testing.T) {
	greeters := optinit.Define[greeter](func(_ []any, opts optinit.ValidatedOptions, _ optinit.Callback) (greeter, error) {
		name, _ := opts.Lookup("name", "nobody").(string)
		return greeter{name: name}, nil
	}, optinit.WithDelegation())
	require.NoError(t, greeters.Declare(optinit.Option("name", optinit.Of[string]())))
	require.NoError(t, greeters.ExposeMethods())

	b := greeters.With("name", "Bob")

	res, err := b.Call("Greet", "!")
	require.NoError(t, err)
	assert.Equal(t, "hello Bob!", res)

	res, err = greeters.Call("Greet", "?")
	require.NoError(t, err)
	assert.Equal(t, "hello nobody?", res)

	res, err = b.Call("Join", "-", "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, "a-b-c", res)

	res, err = b.Call("Pair")
	require.NoError(t, err)
	assert.Equal(t, []any{"Bob", 3}, res)

	_, err = b.Call("Fail")
	require.EqualError(t, err, "Bob failed")

	_, err = b.Call("Greet")
	require.ErrorIs(t, err, optinit.ErrArity)
	_, err = b.Call("Greet", 1)
	require.ErrorIs(t, err, optinit.ErrType)

	// Declared options are set, not delegated.
	res, err = b.Call("name", "Ann")
	require.NoError(t, err)
	next, ok := res.(optinit.Builder[greeter])
	require.True(t, ok)
	name, _ := next.Get("name")
	assert.Equal(t, "Ann", name)

	_, err = b.Call("Missing")
	require.ErrorIs(t, err, optinit.ErrUnknownOperation)
	var ue *optinit.UnknownOperationError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Missing", ue.Name)
}

func TestDelegationRequiresFlag(t *testing.T) {
	quiets := optinit.Define[quiet](func([]any, optinit.ValidatedOptions, optinit.Callback) (quiet, error) {
		return quiet{n: 41}, nil
	})
	require.NoError(t, quiets.Expose("Next", func(q quiet, _ ...any) (any, error) {
		return q.n + 1, nil
	}))

	_, err := quiets.Call("Next")
	require.ErrorIs(t, err, optinit.ErrUnknownOperation)

	require.NoError(t, quiets.DeclareDelegating())
	res, err := quiets.Call("Next")
	require.NoError(t, err)
	assert.Equal(t, 42, res)

	require.ErrorIs(t, quiets.Expose("", func(quiet, ...any) (any, error) { return nil, nil }), optinit.ErrRegistration)
	require.ErrorIs(t, quiets.Expose("Nil", nil), optinit.ErrRegistration)
}
