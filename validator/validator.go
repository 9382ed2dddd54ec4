package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/erraggy/xsd2oas/internal/issues"
	"github.com/erraggy/xsd2oas/internal/severity"
	"github.com/erraggy/xsd2oas/openapi"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Severity indicates the severity level of a validation issue
type Severity = severity.Severity

const (
	// SeverityError indicates a schema the compiler rejects
	SeverityError = severity.SeverityError
	// SeverityWarning indicates a reference that does not resolve
	SeverityWarning = severity.SeverityWarning
)

// resourceURL is the location the schema map is registered under with the
// compiler. References of the form "#/components/schemas/X" resolve
// against it.
const resourceURL = "components.json"

// ValidationError represents a single validation issue
type ValidationError = issues.Issue

// ValidationResult contains the results of checking a schema map
type ValidationResult struct {
	// Valid is true if no errors were found (warnings are allowed)
	Valid bool
	// Errors contains schemas that failed to compile
	Errors []ValidationError
	// Warnings contains dangling and non-local references
	Warnings []ValidationError
	// ErrorCount is the total number of errors
	ErrorCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// SchemaCount is the number of schemas checked
	SchemaCount int
	// RefCount is the number of references followed
	RefCount int
}

// Validator checks schema maps.
type Validator struct {
	// IncludeWarnings determines whether dangling references are reported
	IncludeWarnings bool
	// CompileSchemas runs every schema through the JSON Schema compiler
	CompileSchemas bool
}

// New creates a new Validator instance with default settings
func New() *Validator {
	return &Validator{
		IncludeWarnings: true,
		CompileSchemas:  true,
	}
}

// ValidateWithOptions checks a schema map using functional options.
//
// Example:
//
//	result, err := validator.ValidateWithOptions(
//	    validator.WithDocument(doc),
//	    validator.WithCompileSchemas(false),
//	)
func ValidateWithOptions(opts ...Option) (*ValidationResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("validator: invalid options: %w", err)
	}

	v := &Validator{
		IncludeWarnings: cfg.includeWarnings,
		CompileSchemas:  cfg.compileSchemas,
	}
	return v.ValidateSchemas(cfg.schemas)
}

// ValidateSchemas checks every reference in schemas and, when enabled,
// compiles every schema.
func (v *Validator) ValidateSchemas(schemas *openapi.OrderedMap[*openapi.Schema]) (*ValidationResult, error) {
	result := &ValidationResult{
		Errors:      make([]ValidationError, 0),
		Warnings:    make([]ValidationError, 0),
		SchemaCount: schemas.Len(),
	}

	dangling := v.checkRefs(schemas, result)

	if v.CompileSchemas && schemas.Len() > 0 {
		if err := v.compile(schemas, dangling, result); err != nil {
			return nil, err
		}
	}

	result.ErrorCount = len(result.Errors)
	result.WarningCount = len(result.Warnings)
	result.Valid = result.ErrorCount == 0
	return result, nil
}

// checkRefs reports references that leave the document or name a missing
// schema. It returns the names of schemas holding such a reference.
func (v *Validator) checkRefs(schemas *openapi.OrderedMap[*openapi.Schema], result *ValidationResult) map[string]bool {
	dangling := make(map[string]bool)
	for name, s := range schemas.All() {
		walkRefs(s, schemaPath(name), func(path, ref string) {
			result.RefCount++
			target, ok := localTarget(ref)
			switch {
			case !ok:
				dangling[name] = true
				v.addWarning(result, path, fmt.Sprintf("$ref %q is not a local schema reference", ref), ref)
			case !schemas.Has(target):
				dangling[name] = true
				v.addWarning(result, path, fmt.Sprintf("$ref %q does not resolve to a schema in the document", ref), ref)
			}
		})
	}
	return dangling
}

// compile registers the whole schema map as one resource and compiles each
// schema through its JSON pointer. Schemas holding a reference checkRefs
// rejected are skipped since the compiler stops at the first one.
func (v *Validator) compile(schemas *openapi.OrderedMap[*openapi.Schema], dangling map[string]bool, result *ValidationResult) error {
	doc, err := resourceDocument(schemas)
	if err != nil {
		return fmt.Errorf("validator: cannot encode schemas: %w", err)
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft4)
	if err := c.AddResource(resourceURL, doc); err != nil {
		return fmt.Errorf("validator: cannot register schemas: %w", err)
	}

	seen := make(map[string]bool)
	for name := range schemas.All() {
		if dangling[name] {
			continue
		}
		_, err := c.Compile(resourceURL + "#/components/schemas/" + escapePointer(name))
		if err == nil {
			continue
		}
		if unresolved(err) {
			continue
		}
		msg := err.Error()
		if seen[msg] {
			continue
		}
		seen[msg] = true
		result.Errors = append(result.Errors, ValidationError{
			Path:     schemaPath(name),
			Message:  "schema does not compile",
			Severity: SeverityError,
			Context:  msg,
		})
	}
	return nil
}

// unresolved reports whether err comes from a reference checkRefs has
// already reported.
func unresolved(err error) bool {
	var notFound *jsonschema.JSONPointerNotFoundError
	var loadErr *jsonschema.LoadURLError
	return errors.As(err, &notFound) || errors.As(err, &loadErr)
}

// resourceDocument encodes schemas the way they appear in the output
// document and decodes them into the compiler's value model.
func resourceDocument(schemas *openapi.OrderedMap[*openapi.Schema]) (any, error) {
	data, err := json.Marshal(map[string]any{
		"components": map[string]any{"schemas": schemas},
	})
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

func (v *Validator) addWarning(result *ValidationResult, path, message string, ref string) {
	if !v.IncludeWarnings {
		return
	}
	result.Warnings = append(result.Warnings, ValidationError{
		Path:     path,
		Message:  message,
		Severity: SeverityWarning,
		Field:    "$ref",
		Value:    ref,
	})
}

func schemaPath(name string) string {
	return "components.schemas." + name
}
