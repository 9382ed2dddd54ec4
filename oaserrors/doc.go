// Package oaserrors provides structured error types for the xsd2oas library.
//
// Import path: github.com/erraggy/xsd2oas/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish a malformed schema file from a declaration that
// is missing a mandatory attribute, or from a bad configuration value.
//
// # Error Types
//
//   - [ParseError]: malformed XML in a schema document
//   - [DeclarationError]: a recognized declaration that lacks a mandatory part
//   - [ReferenceError]: a $ref that points at no emitted schema
//   - [SourceError]: a documentation bundle that cannot be read
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrParse]: matches any [ParseError]
//   - [ErrDeclaration]: matches any [DeclarationError]
//   - [ErrReference]: matches any [ReferenceError]
//   - [ErrSource]: matches any [SourceError]
//   - [ErrConfig]: matches any [ConfigError]
//
// # Usage
//
//	result, err := converter.ConvertWithOptions(converter.WithArchive("doc.zip"))
//	if err != nil {
//	    var declErr *oaserrors.DeclarationError
//	    if errors.As(err, &declErr) {
//	        fmt.Printf("bad declaration %s in %s\n", declErr.Declaration, declErr.Path)
//	    }
//	}
package oaserrors
