package validator

import (
	"fmt"

	"github.com/erraggy/xsd2oas/internal/options"
	"github.com/erraggy/xsd2oas/openapi"
)

// Option is a function that configures a validation operation
type Option func(*validateConfig) error

// validateConfig holds configuration for a validation operation
type validateConfig struct {
	// Input source (exactly one must be set)
	schemas  *openapi.OrderedMap[*openapi.Schema]
	document *openapi.Document

	includeWarnings bool
	compileSchemas  bool
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*validateConfig, error) {
	cfg := &validateConfig{
		includeWarnings: true,
		compileSchemas:  true,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.RequireOne(
		options.Source{Option: "WithSchemas", Set: cfg.schemas != nil},
		options.Source{Option: "WithDocument", Set: cfg.document != nil},
	); err != nil {
		return nil, err
	}
	if cfg.document != nil {
		cfg.schemas = documentSchemas(cfg.document)
	}
	return cfg, nil
}

func documentSchemas(doc *openapi.Document) *openapi.OrderedMap[*openapi.Schema] {
	if doc.Components == nil || doc.Components.Schemas == nil {
		return openapi.NewOrderedMap[*openapi.Schema]()
	}
	return doc.Components.Schemas
}

// WithSchemas specifies the schema map to check
func WithSchemas(schemas *openapi.OrderedMap[*openapi.Schema]) Option {
	return func(cfg *validateConfig) error {
		if schemas == nil {
			return fmt.Errorf("schemas cannot be nil")
		}
		cfg.schemas = schemas
		return nil
	}
}

// WithDocument checks the component schemas of doc
func WithDocument(doc *openapi.Document) Option {
	return func(cfg *validateConfig) error {
		if doc == nil {
			return fmt.Errorf("document cannot be nil")
		}
		cfg.document = doc
		return nil
	}
}

// WithIncludeWarnings enables or disables reference warnings
// Default: true
func WithIncludeWarnings(enabled bool) Option {
	return func(cfg *validateConfig) error {
		cfg.includeWarnings = enabled
		return nil
	}
}

// WithCompileSchemas enables or disables JSON Schema compilation
// Default: true
func WithCompileSchemas(enabled bool) Option {
	return func(cfg *validateConfig) error {
		cfg.compileSchemas = enabled
		return nil
	}
}
