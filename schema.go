package optinit

import (
	"reflect"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
)

var timeType = reflect.TypeFor[time.Time]()

// Schema documents the option set of t as an OpenAPI object schema: one
// property per declared option, shaped by its arity and type rule and
// annotated by the Rules declared as key validators.
func (t *Type[T]) Schema() (*openapi3.SchemaRef, error) {
	obj := openapi3.NewObjectSchema()
	obj.Title = t.Name()

	t.mu.RLock()
	docs := make(map[Key][]Rule, len(t.docs))
	for k, rules := range t.docs {
		docs[k] = rules
	}
	t.mu.RUnlock()

	for _, s := range t.Specs() {
		ref := openapi3.NewSchemaRef("", openapi3.NewSchema())
		if err := describeSpec(s, obj, ref); err != nil {
			return nil, err
		}
		for _, r := range docs[s.Key] {
			if err := r.Describe(string(s.Key), obj, ref); err != nil {
				return nil, err
			}
		}
		obj.Properties[string(s.Key)] = ref
	}
	return obj.NewRef(), nil
}

func describeSpec(s OptionSpec, obj *openapi3.Schema, ref *openapi3.SchemaRef) error {
	name := string(s.Key)
	switch {
	case s.Arity.kind == ArityKindCallback:
		mergeSchema(ref.Value, schemaForType(callbackType))
	case s.Arity.scalar():
		if err := s.Type.Describe(name, obj, ref); err != nil {
			return err
		}
	case s.Arity.tuple:
		if err := s.Type.Describe(name, obj, ref); err != nil {
			return err
		}
	default:
		items := openapi3.NewSchemaRef("", openapi3.NewSchema())
		if err := s.Type.Describe(name, obj, items); err != nil {
			return err
		}
		ref.Value.Type = &openapi3.Types{openapi3.TypeArray}
		ref.Value.Items = items
		ref.Value.MinItems = uint64(s.Arity.Min())
		if m := s.Arity.Max(); m >= 0 {
			maxItems := uint64(m)
			ref.Value.MaxItems = &maxItems
		}
	}
	if s.Description != "" {
		appendDescription(ref.Value, s.Description)
	}
	return nil
}

// schemaForType maps a Go type onto the closest OpenAPI schema.
func schemaForType(t reflect.Type) *openapi3.Schema {
	if t == nil {
		return openapi3.NewSchema()
	}
	if t == timeType {
		return openapi3.NewDateTimeSchema()
	}
	switch t.Kind() {
	case reflect.Bool:
		return openapi3.NewBoolSchema()
	case reflect.Int32:
		return openapi3.NewInt32Schema()
	case reflect.Int64:
		return openapi3.NewInt64Schema()
	case reflect.Int, reflect.Int8, reflect.Int16:
		return openapi3.NewIntegerSchema()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return openapi3.NewIntegerSchema().WithMin(0)
	case reflect.Float32, reflect.Float64:
		return openapi3.NewFloat64Schema()
	case reflect.String:
		return openapi3.NewStringSchema()
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return openapi3.NewBytesSchema()
		}
		return openapi3.NewArraySchema().WithItems(schemaForType(t.Elem()))
	case reflect.Map, reflect.Struct:
		return openapi3.NewObjectSchema()
	case reflect.Pointer:
		return schemaForType(t.Elem()).WithNullable()
	case reflect.Func:
		s := openapi3.NewSchema()
		s.Format = "callback"
		s.Description = "callback"
		return s
	}
	return openapi3.NewSchema()
}

// mergeSchema copies the structural fields of src into dst.
func mergeSchema(dst, src *openapi3.Schema) {
	dst.Type = src.Type
	dst.Format = src.Format
	dst.Items = src.Items
	dst.Min = src.Min
	dst.Nullable = src.Nullable
	if len(src.Properties) > 0 || dst.Properties == nil {
		dst.Properties = src.Properties
	}
	if src.Description != "" {
		appendDescription(dst, src.Description)
	}
}

func appendDescription(s *openapi3.Schema, desc string) {
	if s.Description != "" && !strings.HasSuffix(s.Description, " ") {
		s.Description += " "
	}
	s.Description += desc
}
