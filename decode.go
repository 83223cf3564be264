package optinit

import (
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// UnmarshalOptions parses a JSON object into a raw option map. JSON arrays
// become []any, matching how sequence options are stored, and numbers become
// float64.
func UnmarshalOptions(b []byte) (Options, error) {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	opts, _ := toOptions(raw)
	return opts, nil
}

// DecodeOptions reads one JSON object from r into a raw option map. Use it
// instead of UnmarshalOptions when reading from an io.Reader such as a
// request body or a file.
func DecodeOptions(r io.Reader) (Options, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	opts, _ := toOptions(raw)
	return opts, nil
}

// UnmarshalOptionsYAML parses a YAML mapping into a raw option map. YAML
// sequences become []any; integers stay int.
func UnmarshalOptionsYAML(b []byte) (Options, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	opts, _ := toOptions(raw)
	return opts, nil
}

// UnmarshalAndValidate parses a JSON object into an option map and validates
// it against t.
func (t *Type[T]) UnmarshalAndValidate(b []byte) (ValidatedOptions, error) {
	opts, err := UnmarshalOptions(b)
	if err != nil {
		return ValidatedOptions{}, err
	}
	return t.ValidateOptions(opts)
}

// DecodeAndValidate reads a JSON object from r and validates it against t.
func (t *Type[T]) DecodeAndValidate(r io.Reader) (ValidatedOptions, error) {
	opts, err := DecodeOptions(r)
	if err != nil {
		return ValidatedOptions{}, err
	}
	return t.ValidateOptions(opts)
}
