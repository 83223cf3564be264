// Package openapi documents host types declared with optinit in OpenAPI 3
// documents. Each host type becomes a component schema describing its option
// map; endpoints that accept an option map as request body reference it.
//
//	doc := openapi.DocBase("widgets", "Widget service", "1.0")
//	if err := openapi.Post(doc, "/widgets", "createWidget", openapi.Endpoint{
//	    Request: widgetType,
//	}); err != nil {
//	    return err
//	}
package openapi
