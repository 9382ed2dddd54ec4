// Package xsd2oas converts the XML Schema files of a vendor vCloud API
// documentation bundle into OpenAPI 3.0 component schemas.
//
// The work is split across a handful of packages:
//
//   - xsd: parse schema documents and map their type declarations to
//     JSON Schema objects
//   - fixer: add the superclass and stub schemas a merged document needs
//   - converter: read a bundle, merge every schema module and produce the
//     OpenAPI document together with the vendor content-type table
//   - validator: check that every $ref resolves and that the schemas compile
//   - config: TOML configuration for bundle layout and output settings
//
// # Quick Start
//
// Convert a documentation archive:
//
//	import "github.com/erraggy/xsd2oas/converter"
//
//	result, err := converter.ConvertWithOptions(
//		converter.WithArchive("vcloud-api-doc.zip"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	data, err := result.Marshal()
//
// Each complex type becomes a schema keyed by "<namespace>_<TypeName>",
// for example "vcloud_VAppType". Simple types are inlined wherever they
// are referenced. Media types declared in type annotations are collected
// into result.ContentTypes.
//
// # Command Line
//
// The xsd2oas command wraps the converter:
//
//	xsd2oas convert -o openapi.json --content-types types.json vcloud-api-doc.zip
//	xsd2oas check vcloud-api-doc.zip
//	xsd2oas mcp
package xsd2oas
