package fixer

import (
	"fmt"
	"slices"

	"github.com/erraggy/xsd2oas/openapi"
)

// FixType identifies the type of fix applied
type FixType string

const (
	// FixTypeQueryResultSuperclass indicates the query result record union was synthesized
	FixTypeQueryResultSuperclass FixType = "query-result-superclass"
	// FixTypeMetadataSuperclass indicates the typed metadata value union was synthesized
	FixTypeMetadataSuperclass FixType = "metadata-superclass"
	// FixTypeStubOVF indicates placeholder OVF schemas were added
	FixTypeStubOVF FixType = "stub-ovf"
)

// AllFixTypes returns every fix type in application order.
func AllFixTypes() []FixType {
	return []FixType{FixTypeQueryResultSuperclass, FixTypeMetadataSuperclass, FixTypeStubOVF}
}

// ParseFixType validates a fix type name.
func ParseFixType(s string) (FixType, error) {
	ft := FixType(s)
	if !slices.Contains(AllFixTypes(), ft) {
		return "", fmt.Errorf("fixer: unknown fix type %q", s)
	}
	return ft, nil
}

// Fix represents a single change made to the schema map
type Fix struct {
	// Type identifies the category of fix
	Type FixType
	// Path is the dotted location of the change (e.g., "components.schemas.ovf_Item")
	Path string
	// Description is a human-readable description of the fix
	Description string
	// Before is the state before the fix (nil if adding new element)
	Before any
	// After is the value that was added or changed
	After any
}

// FixResult contains the results of a fix operation
type FixResult struct {
	// Schemas is the fixed schema map. Fixes are applied in place.
	Schemas *openapi.OrderedMap[*openapi.Schema]
	// Fixes contains all fixes applied
	Fixes []Fix
	// FixCount is the total number of fixes applied
	FixCount int
}

// HasFixes returns true if any fixes were applied
func (r *FixResult) HasFixes() bool {
	return r.FixCount > 0
}

func (r *FixResult) add(fix Fix) {
	r.Fixes = append(r.Fixes, fix)
	r.FixCount = len(r.Fixes)
}

// Fixer applies the schema fixes
type Fixer struct {
	// EnabledFixes specifies which fix types to apply.
	// If nil or empty, all fix types are enabled.
	EnabledFixes []FixType
}

// New creates a new Fixer instance with default settings
func New() *Fixer {
	return &Fixer{EnabledFixes: nil}
}

// Option is a function that configures a fix operation
type Option func(*fixConfig) error

type fixConfig struct {
	schemas      *openapi.OrderedMap[*openapi.Schema]
	enabledFixes []FixType
}

// FixWithOptions fixes a schema map using functional options.
//
// Example:
//
//	result, err := fixer.FixWithOptions(
//	    fixer.WithSchemas(schemas),
//	    fixer.WithEnabledFixes(fixer.FixTypeStubOVF),
//	)
func FixWithOptions(opts ...Option) (*FixResult, error) {
	cfg := &fixConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("fixer: invalid options: %w", err)
		}
	}
	if cfg.schemas == nil {
		return nil, fmt.Errorf("fixer: no input source specified: use WithSchemas")
	}

	f := &Fixer{EnabledFixes: cfg.enabledFixes}
	return f.Apply(cfg.schemas), nil
}

// WithSchemas specifies the schema map to fix
func WithSchemas(schemas *openapi.OrderedMap[*openapi.Schema]) Option {
	return func(cfg *fixConfig) error {
		if schemas == nil {
			return fmt.Errorf("schemas cannot be nil")
		}
		cfg.schemas = schemas
		return nil
	}
}

// WithEnabledFixes specifies which fix types to apply
func WithEnabledFixes(fixes ...FixType) Option {
	return func(cfg *fixConfig) error {
		for _, ft := range fixes {
			if _, err := ParseFixType(string(ft)); err != nil {
				return err
			}
		}
		cfg.enabledFixes = fixes
		return nil
	}
}

// Apply runs every enabled fix against schemas, in place.
func (f *Fixer) Apply(schemas *openapi.OrderedMap[*openapi.Schema]) *FixResult {
	result := &FixResult{Schemas: schemas, Fixes: make([]Fix, 0)}
	if f.isFixEnabled(FixTypeQueryResultSuperclass) {
		applySuperclass(schemas, queryResultFamily, result)
	}
	if f.isFixEnabled(FixTypeMetadataSuperclass) {
		applySuperclass(schemas, metadataFamily, result)
	}
	if f.isFixEnabled(FixTypeStubOVF) {
		stubOVF(schemas, result)
	}
	return result
}

// isFixEnabled checks if a fix type is enabled.
func (f *Fixer) isFixEnabled(fixType FixType) bool {
	if len(f.EnabledFixes) == 0 {
		return true // all fixes enabled by default
	}
	return slices.Contains(f.EnabledFixes, fixType)
}

func schemaPath(name string) string {
	return "components.schemas." + name
}
