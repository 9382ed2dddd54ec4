package fixer

import (
	"github.com/erraggy/xsd2oas/openapi"
)

// ovfStubs are OVF types the vendor schemas reference while the bundle's
// OVF schemas are excluded from conversion.
var ovfStubs = []string{"ovf_Section_Type", "ovf_Item", "ovf_RASD_Type"}

// newOVFStub returns {type: object, properties: {info: {type: object,
// properties: {value: {type: string}}}}}.
func newOVFStub() *openapi.Schema {
	value := openapi.NewOrderedMap[*openapi.Schema]()
	value.Set("value", &openapi.Schema{Type: "string"})

	info := openapi.NewOrderedMap[*openapi.Schema]()
	info.Set("info", &openapi.Schema{Type: "object", Properties: value})

	return &openapi.Schema{Type: "object", Properties: info}
}

// stubOVF adds each missing OVF stub.
func stubOVF(schemas *openapi.OrderedMap[*openapi.Schema], result *FixResult) {
	for _, name := range ovfStubs {
		stub := newOVFStub()
		if !schemas.SetIfAbsent(name, stub) {
			continue
		}
		result.add(Fix{
			Type:        FixTypeStubOVF,
			Path:        schemaPath(name),
			Description: "added placeholder schema " + name,
			After:       stub,
		})
	}
}
