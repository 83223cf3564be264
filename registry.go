package optinit

import (
	"reflect"
	"sync"

	"github.com/charmbracelet/log"
)

// types holds one *Type[T] per host type, keyed by reflect.Type.
var types sync.Map

// Type is the option registry of one host type T: its option specs, its
// validators, its constructor and the operations builders may delegate to.
//
// Declarations are expected during the type's setup phase. Builders only
// read the registry.
type Type[T any] struct {
	name string

	mu            sync.RWMutex
	ctor          Constructor[T]
	delegate      bool
	logger        *log.Logger
	specs         map[Key]*installedSpec[T]
	order         []Key
	keyValidators map[Key][]KeyValidator
	docs          map[Key][]Rule
	validators    []GenericValidator
	ops           map[string]Operation[T]
}

type installedSpec[T any] struct {
	OptionSpec
	handler func(b Builder[T], args []any, cb Callback) Builder[T]
}

// Define returns the registry of host type T, creating it on first use.
// Later calls return the same registry; a non-nil ctor replaces the stored
// constructor and opts are applied again.
func Define[T any](ctor Constructor[T], opts ...TypeOption) *Type[T] {
	rt := reflect.TypeFor[T]()
	v, ok := types.Load(rt)
	if !ok {
		v, _ = types.LoadOrStore(rt, &Type[T]{
			name:          rt.String(),
			specs:         map[Key]*installedSpec[T]{},
			keyValidators: map[Key][]KeyValidator{},
			docs:          map[Key][]Rule{},
			ops:           map[string]Operation[T]{},
		})
	}
	t := v.(*Type[T])

	cfg := typeConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if ctor != nil {
		t.ctor = ctor
	}
	if cfg.name != "" {
		t.name = cfg.name
	}
	if cfg.logger != nil {
		t.logger = cfg.logger
	}
	if cfg.delegate && !t.delegate {
		t.delegate = true
		t.log().Debug("delegation enabled")
	}
	return t
}

// Lookup returns the registry of host type T if Define was called for it.
func Lookup[T any]() (*Type[T], bool) {
	v, ok := types.Load(reflect.TypeFor[T]())
	if !ok {
		return nil, false
	}
	return v.(*Type[T]), true
}

// Name is the host type name used in errors and schemas.
func (t *Type[T]) Name() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.name
}

// Has reports whether key is a declared option.
func (t *Type[T]) Has(key Key) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.specs[key]
	return ok
}

// Specs returns the declared option specs in declaration order.
func (t *Type[T]) Specs() []OptionSpec {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]OptionSpec, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.specs[k].OptionSpec)
	}
	return out
}

// Delegating reports whether builders forward unknown operations to a
// finalized instance.
func (t *Type[T]) Delegating() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.delegate
}

func (t *Type[T]) spec(key Key) (*installedSpec[T], bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.specs[key]
	return s, ok
}

func (t *Type[T]) constructor() Constructor[T] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ctor
}

// log returns the logger for t. Callers may hold t.mu.
func (t *Type[T]) log() *log.Logger {
	l := t.logger
	if l == nil {
		l = Logger()
	}
	return l.With("type", t.name)
}
