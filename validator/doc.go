// Package validator checks a generated schema map for references that do not
// resolve and for schemas a JSON Schema compiler rejects.
//
// Dangling references are reported as warnings: vendor bundles routinely
// reference types they do not ship, and the converter keeps such references
// as they are. Schemas that fail to compile, for example because an XSD
// pattern is not a valid regular expression, are reported as errors.
//
// # Quick Start
//
//	result, err := validator.ValidateWithOptions(
//		validator.WithSchemas(convResult.Schemas),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, w := range result.Warnings {
//		fmt.Println(w.String())
//	}
//
// Compilation uses github.com/santhosh-tekuri/jsonschema/v6 with the draft-04
// dialect OpenAPI 3.0 schema objects are based on. Keywords specific to
// OpenAPI, such as nullable and discriminator, are ignored by the compiler.
package validator
