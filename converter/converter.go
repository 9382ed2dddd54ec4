package converter

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/erraggy/xsd2oas/config"
	"github.com/erraggy/xsd2oas/fixer"
	"github.com/erraggy/xsd2oas/internal/issues"
	"github.com/erraggy/xsd2oas/internal/severity"
	"github.com/erraggy/xsd2oas/internal/source"
	"github.com/erraggy/xsd2oas/oaserrors"
	"github.com/erraggy/xsd2oas/openapi"
	"github.com/erraggy/xsd2oas/validator"
	"github.com/erraggy/xsd2oas/xsd"
)

// Severity indicates the severity level of a conversion issue
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about conversion choices
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates output that may not be what the bundle meant
	SeverityWarning = severity.SeverityWarning
	// SeverityError indicates schemas that do not compile
	SeverityError = severity.SeverityError
	// SeverityCritical indicates findings that abort the conversion
	SeverityCritical = severity.SeverityCritical
)

// ConversionIssue represents a single conversion finding
type ConversionIssue = issues.Issue

// Stats counts what a conversion read and produced.
type Stats struct {
	// Files is the number of schema files read
	Files int
	// Types is the number of resolved type declarations
	Types int
	// Objects is the number of complex types among Types
	Objects int
	// SimpleTypes is the number of simple types among Types
	SimpleTypes int
	// ContentTypes is the number of entries in the content-type table
	ContentTypes int
	// Skipped is the number of top-level declarations that are not types
	Skipped int
	// Removed is the number of fields dropped as removed
	Removed int
	// Overwritten is the number of schema keys declared more than once
	Overwritten int
}

// ConversionResult contains the results of converting a documentation bundle
type ConversionResult struct {
	// Document is the generated OpenAPI document
	Document *openapi.Document
	// Schemas is the component schema map of Document, in output order
	Schemas *openapi.OrderedMap[*openapi.Schema]
	// ContentTypes maps vendor media types to schema names, sorted by media type
	ContentTypes *openapi.OrderedMap[string]
	// Format is the serialization selected by the configuration
	Format openapi.Format
	// Files lists the schema files read, in processing order
	Files []string
	// Fixes lists the fixes applied after merging
	Fixes []fixer.Fix
	// Stats counts what was read and produced
	Stats Stats
	// Issues contains all conversion issues
	Issues []ConversionIssue
	// InfoCount is the total number of info messages
	InfoCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// ErrorCount is the total number of errors
	ErrorCount int
	// CriticalCount is the total number of critical issues
	CriticalCount int
	// Success is true if conversion completed without errors or critical issues
	Success bool
}

// HasCriticalIssues returns true if there are any critical issues
func (r *ConversionResult) HasCriticalIssues() bool {
	return r.CriticalCount > 0
}

// HasWarnings returns true if there are any warnings
func (r *ConversionResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// Marshal serializes Document in the configured format.
func (r *ConversionResult) Marshal() ([]byte, error) {
	return r.Document.Marshal(r.Format)
}

// Converter turns documentation bundles into OpenAPI documents
type Converter struct {
	// Config holds the bundle conventions and output settings.
	// Defaults to config.Default() if nil.
	Config *config.Config
	// Logger receives progress and diagnostics. Defaults to NopLogger.
	Logger Logger
	// NullableOptional marks optional properties nullable. It is combined
	// with the output.nullable_optional configuration value.
	NullableOptional bool
	// EnabledFixes overrides the fixes selected by the configuration.
	// If nil, the configuration decides.
	EnabledFixes []fixer.FixType
	// DisableFixes skips the fixer entirely
	DisableFixes bool
	// CheckRefs runs the reference checker over the merged schemas
	CheckRefs bool
	// StrictMode causes conversion to fail on any warning
	StrictMode bool
	// IncludeInfo determines whether to include informational messages
	IncludeInfo bool
}

// New creates a new Converter instance with default settings
func New() *Converter {
	return &Converter{
		Config:      config.Default(),
		Logger:      NopLogger{},
		IncludeInfo: true,
	}
}

// ConvertBundle reads the archive or directory at path and converts it.
func (c *Converter) ConvertBundle(path string) (*ConversionResult, error) {
	files, err := source.Read(path, source.NewSelector(c.config()))
	if err != nil {
		return nil, fmt.Errorf("converter: %w", err)
	}
	return c.ConvertFiles(files)
}

// ConvertArchive reads the zip archive at path and converts it.
func (c *Converter) ConvertArchive(path string) (*ConversionResult, error) {
	files, err := source.ReadArchive(path, source.NewSelector(c.config()))
	if err != nil {
		return nil, fmt.Errorf("converter: %w", err)
	}
	return c.ConvertFiles(files)
}

// ConvertDirectory reads the unpacked bundle below root and converts it.
func (c *Converter) ConvertDirectory(root string) (*ConversionResult, error) {
	files, err := source.ReadDirectory(root, source.NewSelector(c.config()))
	if err != nil {
		return nil, fmt.Errorf("converter: %w", err)
	}
	return c.ConvertFiles(files)
}

// ConvertFiles converts schema files already in memory. Files are processed
// in lexicographic name order whatever order they are given in. A file
// without a namespace gets the one its name maps to.
//
// Any file that fails to parse or holds a malformed declaration aborts the
// whole conversion.
func (c *Converter) ConvertFiles(files []source.File) (*ConversionResult, error) {
	cfg := c.config()
	logger := c.logger()

	fixes, err := c.fixTypes(cfg)
	if err != nil {
		return nil, fmt.Errorf("converter: %w", err)
	}

	format, err := openapi.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, fmt.Errorf("converter: %w", err)
	}

	files = slices.Clone(files)
	source.Sort(files)

	result := &ConversionResult{
		Format: format,
		Files:  make([]string, 0, len(files)),
		Issues: make([]ConversionIssue, 0),
	}

	docs, err := parseFiles(files, cfg, logger)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		result.Files = append(result.Files, doc.Path)
	}
	result.Stats.Files = len(docs)

	opts := xsd.Options{NullableOptional: c.NullableOptional || cfg.Output.NullableOptional}
	schemas := openapi.NewOrderedMap[*openapi.Schema]()
	contentTypes := make(map[string]string)

	idx := xsd.NewIndex(docs...)
	for _, doc := range docs {
		resolved, err := doc.Resolve(idx)
		if err != nil {
			return nil, fmt.Errorf("converter: %w", err)
		}
		logger.Debug("resolved schema file",
			"file", doc.Path,
			"namespace", doc.Namespace,
			"types", len(resolved.Types),
		)
		c.merge(doc, resolved, opts, schemas, contentTypes, result, logger)
	}

	result.ContentTypes = sortedContentTypes(contentTypes)
	result.Stats.ContentTypes = result.ContentTypes.Len()

	if !c.DisableFixes {
		f := &fixer.Fixer{EnabledFixes: fixes}
		fixResult := f.Apply(schemas)
		result.Fixes = fixResult.Fixes
		for _, fix := range fixResult.Fixes {
			c.addIssueWithContext(result, fix.Path, fix.Description, SeverityInfo, string(fix.Type))
		}
		if fixResult.HasFixes() {
			logger.Info("applied schema fixes", "count", fixResult.FixCount)
		}
	}

	if c.CheckRefs {
		if err := c.checkRefs(schemas, result); err != nil {
			return nil, err
		}
	}

	result.Schemas = schemas
	result.Document = openapi.NewDocument(&openapi.Info{
		Title:       cfg.Output.Title,
		Description: cfg.Output.Description,
		Version:     cfg.Output.Version,
	}, schemas)

	c.updateCounts(result)
	result.Success = result.CriticalCount == 0 && result.ErrorCount == 0

	logger.Info("conversion complete",
		"files", result.Stats.Files,
		"schemas", schemas.Len(),
		"content_types", result.Stats.ContentTypes,
		"warnings", result.WarningCount,
	)

	if c.StrictMode && (result.CriticalCount > 0 || result.ErrorCount > 0 || result.WarningCount > 0) {
		return result, fmt.Errorf("conversion failed in strict mode: %d error(s), %d warning(s)",
			result.CriticalCount+result.ErrorCount, result.WarningCount)
	}

	if !c.IncludeInfo {
		result.Issues = issues.Filter(result.Issues, SeverityWarning)
		result.InfoCount = 0
	}

	return result, nil
}

// parseFiles parses every file and settles its namespace. Errors carry the
// file name.
func parseFiles(files []source.File, cfg *config.Config, logger Logger) ([]*xsd.Document, error) {
	docs := make([]*xsd.Document, 0, len(files))
	for _, f := range files {
		ns := f.Namespace
		if ns == "" {
			ns = cfg.Namespace.ForPath(f.Name)
		}

		doc, err := xsd.ParseDocument(f.Data, ns)
		if err != nil {
			return nil, fmt.Errorf("converter: %w", withPath(err, f.Name))
		}
		doc.Path = f.Name
		if cfg.Namespace.Mode == config.ModeTarget {
			doc.Namespace = cfg.Namespace.ForTarget(doc.TargetNamespace)
		}

		logger.Debug("parsed schema file",
			"file", f.Name,
			"namespace", doc.Namespace,
			"target_namespace", doc.TargetNamespace,
		)
		docs = append(docs, doc)
	}
	return docs, nil
}

// withPath attaches the file name to a parse failure.
func withPath(err error, path string) error {
	var perr *oaserrors.ParseError
	if errors.As(err, &perr) {
		perr.Path = path
		return err
	}
	return &oaserrors.ParseError{Path: path, Message: "not a schema document", Cause: err}
}

// merge adds the types of one resolved document to schemas. A later
// declaration of the same name replaces the earlier one in place.
func (c *Converter) merge(
	doc *xsd.Document,
	resolved *xsd.Schema,
	opts xsd.Options,
	schemas *openapi.OrderedMap[*openapi.Schema],
	contentTypes map[string]string,
	result *ConversionResult,
	logger Logger,
) {
	for _, t := range resolved.Types {
		name := t.Name()
		result.Stats.Types++
		if t.Object != nil {
			result.Stats.Objects++
			for _, field := range t.Object.Removed {
				result.Stats.Removed++
				logger.Debug("dropped removed field", "type", name, "field", field)
				result.Issues = append(result.Issues, ConversionIssue{
					Path:     schemaPath(name),
					Message:  fmt.Sprintf("field %q is marked removed and was dropped", field),
					Severity: SeverityInfo,
					Field:    field,
					File:     doc.Path,
				})
			}
		} else {
			result.Stats.SimpleTypes++
		}

		if schemas.Set(name, t.Schema(opts)) {
			result.Stats.Overwritten++
			logger.Warn("schema declared more than once", "schema", name, "file", doc.Path)
			result.Issues = append(result.Issues, ConversionIssue{
				Path:     schemaPath(name),
				Message:  "schema declared more than once; the later declaration wins",
				Severity: SeverityWarning,
				File:     doc.Path,
			})
		}
	}

	for _, decl := range resolved.Skipped {
		result.Stats.Skipped++
		logger.Debug("skipped declaration", "file", doc.Path, "declaration", decl)
		result.Issues = append(result.Issues, ConversionIssue{
			Path:     "components.schemas",
			Message:  fmt.Sprintf("top-level %s is not a type and was skipped", decl),
			Severity: SeverityInfo,
			File:     doc.Path,
		})
	}

	declared := resolved.ContentTypesNames()
	for _, contentType := range sortedKeys(declared) {
		name := declared[contentType]
		if prev, ok := contentTypes[contentType]; ok && prev != name {
			result.Issues = append(result.Issues, ConversionIssue{
				Path:     "contentTypes",
				Message:  fmt.Sprintf("content type %q maps to both %s and %s; keeping %s", contentType, prev, name, name),
				Severity: SeverityWarning,
				Value:    contentType,
				File:     doc.Path,
			})
		}
		contentTypes[contentType] = name
	}
}

// checkRefs folds the reference checker's findings into result.
func (c *Converter) checkRefs(schemas *openapi.OrderedMap[*openapi.Schema], result *ConversionResult) error {
	v := validator.New()
	vr, err := v.ValidateSchemas(schemas)
	if err != nil {
		return fmt.Errorf("converter: %w", err)
	}
	result.Issues = append(result.Issues, vr.Errors...)
	result.Issues = append(result.Issues, vr.Warnings...)
	return nil
}

func sortedContentTypes(m map[string]string) *openapi.OrderedMap[string] {
	out := openapi.NewOrderedMap[string]()
	for _, k := range sortedKeys(m) {
		out.Set(k, m[k])
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Converter) config() *config.Config {
	if c.Config == nil {
		return config.Default()
	}
	return c.Config
}

func (c *Converter) logger() Logger {
	if c.Logger == nil {
		return NopLogger{}
	}
	return c.Logger
}

// fixTypes returns the fixes to run, preferring EnabledFixes over the
// configuration.
func (c *Converter) fixTypes(cfg *config.Config) ([]fixer.FixType, error) {
	if c.EnabledFixes != nil {
		return c.EnabledFixes, nil
	}
	return cfg.Fixer.FixTypes()
}

// updateCounts updates the issue counts in the result
func (c *Converter) updateCounts(result *ConversionResult) {
	t := issues.Count(result.Issues)
	result.InfoCount = t.Info
	result.WarningCount = t.Warning
	result.ErrorCount = t.Error
	result.CriticalCount = t.Critical
}

// addIssueWithContext is a helper to add a conversion issue with context
func (c *Converter) addIssueWithContext(result *ConversionResult, path, message string, sev Severity, context string) {
	result.Issues = append(result.Issues, ConversionIssue{
		Path:     path,
		Message:  message,
		Severity: sev,
		Context:  context,
	})
}

func schemaPath(name string) string {
	return "components.schemas." + name
}
