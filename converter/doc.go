// Package converter turns a vendor API documentation bundle into an
// OpenAPI 3.0 document whose components.schemas section holds one schema per
// XML Schema type declaration.
//
// The pipeline reads the bundle's schema files (a zip archive or an unpacked
// directory), parses every file, indexes the top-level declarations of all
// of them, resolves each file's types in lexicographic file order and merges
// them into one insertion-ordered schema map. The fixer package then adds
// the synthetic superclass unions and OVF stubs, and the map is wrapped in a
// document. A content-type table maps every vendor media type found in the
// annotations to the schema that describes it.
//
// # Quick Start
//
// Convert a bundle using functional options:
//
//	result, err := converter.ConvertWithOptions(
//		converter.WithArchive("vcloud-api-doc.zip"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	data, _ := result.Marshal()
//	os.WriteFile("openapi.json", data, 0o644)
//
// Or use a reusable Converter instance:
//
//	c := converter.New()
//	c.NullableOptional = true
//	result, err := c.ConvertDirectory("doc")
//
// # Conversion Issues
//
// Malformed XML and malformed declarations abort the conversion with an
// error naming the file and declaration (see package oaserrors). Everything
// else is reported as an issue: skipped top-level declarations, dropped
// removed fields and applied fixes are Info; schema names declared twice and
// conflicting content types are Warnings. With CheckRefs, references that do
// not resolve are Warnings and schemas the JSON Schema compiler rejects are
// Errors.
//
// # Determinism
//
// Files are always processed in lexicographic name order and the schema map
// keeps first-insertion order, so the same bundle yields byte-identical
// output. A name declared again replaces the earlier schema in place.
package converter
