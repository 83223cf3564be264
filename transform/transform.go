package transform

import (
	"reflect"
	"strings"

	"github.com/Gobd/optinit"
)

// TrimSpace runs [strings.TrimSpace] on every string value in opts,
// including strings nested in sequences and maps.
func TrimSpace(opts optinit.Options) optinit.Options {
	return StringFunc(opts, strings.TrimSpace)
}

// ToLower runs [strings.ToLower] on every string value in opts.
func ToLower(opts optinit.Options) optinit.Options {
	return StringFunc(opts, strings.ToLower)
}

// StringFunc returns a copy of opts with f applied to every string value.
// Sequences and maps are copied, never modified in place. Callbacks and
// other values are kept as they are.
func StringFunc(opts optinit.Options, f func(string) string) optinit.Options {
	if opts == nil {
		return nil
	}
	out := make(optinit.Options, len(opts))
	for k, v := range opts {
		out[k] = stringFunc(v, f)
	}
	return out
}

// Multi runs fns on opts sequentially.
func Multi(opts optinit.Options, fns ...func(optinit.Options) optinit.Options) optinit.Options {
	for _, f := range fns {
		opts = f(opts)
	}
	return opts
}

func stringFunc(a any, f func(string) string) any {
	switch v := a.(type) {
	case nil:
		return nil
	case string:
		return f(v)
	case []any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = stringFunc(v[i], f)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = stringFunc(val, f)
		}
		return out
	}

	rv := reflect.ValueOf(a)
	switch rv.Kind() {
	case reflect.String:
		return reflect.ValueOf(f(rv.String())).Convert(rv.Type()).Interface()
	case reflect.Slice:
		if rv.IsNil() || rv.Type().Elem().Kind() != reflect.String {
			return a
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := range rv.Len() {
			out.Index(i).SetString(f(rv.Index(i).String()))
		}
		return out.Interface()
	}
	return a
}
