package openapi

import (
	"errors"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

// Declared is a host type registry (an *optinit.Type[T]) that can document
// its option set.
type Declared interface {
	Name() string
	Schema() (*openapi3.SchemaRef, error)
}

// Endpoint describes an operation whose request body is the option map of a
// host type.
type Endpoint struct {
	Summary     string
	Description string
	Request     Declared
	Responses   map[string]string // status code -> description
}

// DocBase returns a basic OpenAPI 3.0.3 document structure.
func DocBase(serviceName, description, version string) *openapi3.T {
	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       serviceName,
			Description: description,
			Version:     version,
		},
		Paths: &openapi3.Paths{},
	}
}

// AddOptions stores the option schema of each declared type under
// components/schemas, keyed by the type name.
func AddOptions(doc *openapi3.T, types ...Declared) error {
	for _, d := range types {
		if _, err := componentRef(doc, d); err != nil {
			return err
		}
	}
	return nil
}

// componentRef registers d as a component and returns a $ref to it.
func componentRef(doc *openapi3.T, d Declared) (*openapi3.SchemaRef, error) {
	if d == nil {
		return nil, errors.New("nil declared type")
	}
	ref, err := d.Schema()
	if err != nil {
		return nil, err
	}
	if doc.Components == nil {
		doc.Components = &openapi3.Components{}
	}
	if doc.Components.Schemas == nil {
		doc.Components.Schemas = openapi3.Schemas{}
	}
	doc.Components.Schemas[d.Name()] = ref
	return openapi3.NewSchemaRef("#/components/schemas/"+d.Name(), ref.Value), nil
}

// NewRequest builds a JSON request body referencing the option schema of d.
func NewRequest(doc *openapi3.T, d Declared) (*openapi3.RequestBodyRef, error) {
	ref, err := componentRef(doc, d)
	if err != nil {
		return nil, err
	}
	return &openapi3.RequestBodyRef{
		Value: &openapi3.RequestBody{
			Required: true,
			Content: openapi3.Content{
				"application/json": &openapi3.MediaType{Schema: ref},
			},
		},
	}, nil
}

// AddPath adds an operation to the OpenAPI spec at the given path and method.
func AddPath(path, method string, s *openapi3.T, op *openapi3.Operation) {
	p := s.Paths.Value(path)
	if p == nil {
		p = &openapi3.PathItem{}
	}

	switch method {
	case http.MethodPost:
		p.Post = op
	case http.MethodPut:
		p.Put = op
	case http.MethodPatch:
		p.Patch = op
	}

	s.Paths.Set(path, p)
}

func addEndpoint(doc *openapi3.T, path, method, operationID string, ep Endpoint) error {
	op := &openapi3.Operation{
		OperationID: operationID,
		Summary:     ep.Summary,
		Description: ep.Description,
	}
	if ep.Request != nil {
		body, err := NewRequest(doc, ep.Request)
		if err != nil {
			return err
		}
		op.RequestBody = body
	}

	responses := ep.Responses
	if len(responses) == 0 {
		responses = map[string]string{"200": "OK"}
	}
	opts := make([]openapi3.NewResponsesOption, 0, len(responses))
	for code, desc := range responses {
		opts = append(opts, openapi3.WithName(code, &openapi3.Response{Description: &desc}))
	}
	op.Responses = openapi3.NewResponses(opts...)

	AddPath(path, method, doc, op)
	return nil
}

// Post registers a POST endpoint on doc.
func Post(doc *openapi3.T, path, operationID string, ep Endpoint) error {
	return addEndpoint(doc, path, http.MethodPost, operationID, ep)
}

// Put registers a PUT endpoint on doc.
func Put(doc *openapi3.T, path, operationID string, ep Endpoint) error {
	return addEndpoint(doc, path, http.MethodPut, operationID, ep)
}

// Patch registers a PATCH endpoint on doc.
func Patch(doc *openapi3.T, path, operationID string, ep Endpoint) error {
	return addEndpoint(doc, path, http.MethodPatch, operationID, ep)
}
