// Package openapi holds the subset of the OpenAPI 3.0 object model that
// xsd2oas emits: schema objects, an insertion-ordered map used for
// properties and components, and the document wrapper that carries them.
//
// Every collection that ends up in output is an [OrderedMap], so marshaling
// the same [Document] twice yields byte-identical JSON and YAML with keys
// in the order they were first inserted.
package openapi
