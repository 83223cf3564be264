package optinit

import (
	"slices"

	json "github.com/goccy/go-json"
)

// ValidatedOptions is an option map that has passed full validation. It is
// what host constructors receive, and validating it again is a no-op.
type ValidatedOptions struct {
	m Options
}

// Get returns the value of key.
func (v ValidatedOptions) Get(key Key) (any, bool) {
	val, ok := v.m[key]
	return val, ok
}

// Lookup returns the value of key or fallback when key is absent.
func (v ValidatedOptions) Lookup(key Key, fallback any) any {
	if val, ok := v.m[key]; ok {
		return val
	}
	return fallback
}

// Len is the number of options.
func (v ValidatedOptions) Len() int { return len(v.m) }

// Keys returns the option keys in sorted order.
func (v ValidatedOptions) Keys() []Key {
	keys := make([]Key, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Map returns a copy of the options.
func (v ValidatedOptions) Map() Options {
	out := make(Options, len(v.m))
	for k, val := range v.m {
		out[k] = val
	}
	return out
}

// MarshalJSON encodes the options as a JSON object. Callback values are
// encoded as null.
func (v ValidatedOptions) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(v.m))
	for k, val := range v.m {
		if _, ok := asCallback(val); ok {
			out[string(k)] = nil
			continue
		}
		out[string(k)] = val
	}
	return json.Marshal(out)
}

// union returns a new map holding base overlaid with over.
func union(base, over Options) Options {
	out := make(Options, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
