package optinit

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/asaskevich/govalidator"
	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Required rejects empty option values: "", zero numbers, nil, empty
// sequences and maps.
var Required Rule = requiredRule{validation.Required}

type requiredRule struct {
	validation.RequiredRule
}

func (r requiredRule) Describe(name string, schema *openapi3.Schema, _ *openapi3.SchemaRef) error {
	schema.Required = append(schema.Required, name)
	return nil
}

// NotNil rejects nil option values.
var NotNil Rule = notNilRule{validation.NotNil}

type notNilRule struct {
	validation.Rule
}

func (notNilRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Nullable = false
	return nil
}

type lengthRule struct {
	validation.LengthRule
	min, max int
}

// Length checks the rune length of a string value, or the number of
// elements of a sequence value. A zero max means no upper bound.
func Length(lo, hi int) Rule {
	return &lengthRule{validation.RuneLength(lo, hi), lo, hi}
}

func (r *lengthRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	if ref.Value.Type.Is(openapi3.TypeArray) {
		ref.Value.WithMinItems(int64(r.min))
		if r.max > 0 {
			ref.Value.WithMaxItems(int64(r.max))
		}
		return nil
	}
	ref.Value.WithMinLength(int64(r.min))
	if r.max > 0 {
		ref.Value.WithMaxLength(int64(r.max))
	}
	return nil
}

type thresholdRule struct {
	validation.ThresholdRule
	threshold any
	min       bool
}

// Min checks that a value is greater than or equal to threshold.
func Min(threshold any) Rule {
	return thresholdRule{validation.Min(threshold), threshold, true}
}

// Max checks that a value is less than or equal to threshold.
func Max(threshold any) Rule {
	return thresholdRule{validation.Max(threshold), threshold, false}
}

func (r thresholdRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	rv := reflect.Indirect(reflect.ValueOf(r.threshold))
	if !rv.IsValid() || !rv.CanConvert(reflect.TypeFor[float64]()) {
		return fmt.Errorf("cannot convert %v to float64", r.threshold)
	}
	f := rv.Convert(reflect.TypeFor[float64]()).Float()
	if r.min {
		ref.Value.Min = &f
	} else {
		ref.Value.Max = &f
	}
	return nil
}

type dateRule struct {
	validation.DateRule
	layout string
}

// Date checks that a string value is a date in the given layout.
func Date(layout string) Rule {
	return dateRule{validation.Date(layout), layout}
}

func (r dateRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Format = r.layout
	return nil
}

type formatRule struct {
	validation.StringRule
	format string
}

// Email checks that a string value is an email address.
func Email() Rule {
	return formatRule{validation.NewStringRule(govalidator.IsEmail, "must be a valid email address"), "email"}
}

// URL checks that a string value is a URL.
func URL() Rule {
	return formatRule{validation.NewStringRule(govalidator.IsURL, "must be a valid URL"), "uri"}
}

func (r formatRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Format = r.format
	return nil
}

type uniqueRule struct{}

// Unique checks that the elements of a sequence value are pairwise distinct.
func Unique() Rule {
	return uniqueRule{}
}

func (uniqueRule) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return nil
	}
	rv = reflect.Indirect(rv)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return errors.New("must be a sequence")
	}
	for i := 0; i < rv.Len(); i++ {
		for j := i + 1; j < rv.Len(); j++ {
			if reflect.DeepEqual(rv.Index(i).Interface(), rv.Index(j).Interface()) {
				return fmt.Errorf("not unique: elements %d and %d are equal", i, j)
			}
		}
	}
	return nil
}

func (uniqueRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.UniqueItems = true
	return nil
}

type eachRule struct {
	validation.EachRule
	rules []Rule
}

// Each applies rules to every element of a sequence value.
func Each(rules ...Rule) Rule {
	vr := make([]validation.Rule, len(rules))
	for i := range rules {
		vr[i] = rules[i]
	}
	return &eachRule{validation.Each(vr...), rules}
}

func (r *eachRule) Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error {
	target := ref
	if ref.Value.Items != nil {
		target = ref.Value.Items
	}
	for _, rule := range r.rules {
		if err := rule.Describe(name, schema, target); err != nil {
			return err
		}
	}
	return nil
}

type byRule struct {
	validation.Rule
	desc string
}

// By turns f into a Rule documented by desc.
func By(f func(value any) error, desc string) Rule {
	return byRule{validation.By(f), desc}
}

func (r byRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	if r.desc != "" {
		appendDescription(ref.Value, r.desc)
	}
	return nil
}

type ozzoRules []validation.Rule

// Rules adapts ozzo validation rules into a single Rule.
func Rules(rules ...validation.Rule) Rule {
	return ozzoRules(rules)
}

func (r ozzoRules) Validate(value any) error {
	return validation.Validate(value, r...)
}

func (ozzoRules) Describe(string, *openapi3.Schema, *openapi3.SchemaRef) error {
	return nil
}

// docRule only documents; it accepts every value.
type docRule func(ref *openapi3.SchemaRef)

func (docRule) Validate(any) error { return nil }

func (r docRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	r(ref)
	return nil
}

// Describe documents an option with desc.
func Describe(desc string) Rule {
	return docRule(func(ref *openapi3.SchemaRef) { appendDescription(ref.Value, desc) })
}

// Default documents the value an option takes when it is not given.
func Default(v any) Rule {
	return docRule(func(ref *openapi3.SchemaRef) { ref.Value.Default = v })
}

// Example documents an example value of an option.
func Example(v any) Rule {
	return docRule(func(ref *openapi3.SchemaRef) { ref.Value.Example = v })
}

// Deprecated marks an option as deprecated.
func Deprecated() Rule {
	return docRule(func(ref *openapi3.SchemaRef) { ref.Value.Deprecated = true })
}
