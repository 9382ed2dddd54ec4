package converter

import (
	"fmt"

	"github.com/erraggy/xsd2oas/config"
	"github.com/erraggy/xsd2oas/fixer"
	"github.com/erraggy/xsd2oas/internal/options"
	"github.com/erraggy/xsd2oas/internal/source"
)

// Option is a function that configures a conversion operation
type Option func(*convertConfig) error

// convertConfig holds configuration for a conversion operation
type convertConfig struct {
	// Input source (exactly one must be set)
	bundle    *string
	archive   *string
	directory *string
	files     []source.File

	cfg              *config.Config
	logger           Logger
	nullableOptional bool
	fixes            []fixer.FixType
	disableFixes     bool
	checkRefs        bool
	strictMode       bool
	includeInfo      bool
}

// ConvertWithOptions converts a documentation bundle using functional options.
//
// Example:
//
//	result, err := converter.ConvertWithOptions(
//	    converter.WithArchive("vcloud-api-doc.zip"),
//	    converter.WithCheckRefs(true),
//	)
func ConvertWithOptions(opts ...Option) (*ConversionResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("converter: invalid options: %w", err)
	}

	c := &Converter{
		Config:           cfg.cfg,
		Logger:           cfg.logger,
		NullableOptional: cfg.nullableOptional,
		EnabledFixes:     cfg.fixes,
		DisableFixes:     cfg.disableFixes,
		CheckRefs:        cfg.checkRefs,
		StrictMode:       cfg.strictMode,
		IncludeInfo:      cfg.includeInfo,
	}

	switch {
	case cfg.bundle != nil:
		return c.ConvertBundle(*cfg.bundle)
	case cfg.archive != nil:
		return c.ConvertArchive(*cfg.archive)
	case cfg.directory != nil:
		return c.ConvertDirectory(*cfg.directory)
	default:
		return c.ConvertFiles(cfg.files)
	}
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*convertConfig, error) {
	cfg := &convertConfig{
		cfg:         config.Default(),
		logger:      NopLogger{},
		includeInfo: true,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.RequireOne(
		options.Source{Option: "WithBundle", Set: cfg.bundle != nil},
		options.Source{Option: "WithArchive", Set: cfg.archive != nil},
		options.Source{Option: "WithDirectory", Set: cfg.directory != nil},
		options.Source{Option: "WithFiles", Set: cfg.files != nil},
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithBundle specifies a zip archive or an unpacked bundle directory,
// told apart by what path is
func WithBundle(path string) Option {
	return func(cfg *convertConfig) error {
		if path == "" {
			return fmt.Errorf("bundle path cannot be empty")
		}
		cfg.bundle = &path
		return nil
	}
}

// WithArchive specifies a zip archive as the input source
func WithArchive(path string) Option {
	return func(cfg *convertConfig) error {
		if path == "" {
			return fmt.Errorf("archive path cannot be empty")
		}
		cfg.archive = &path
		return nil
	}
}

// WithDirectory specifies an unpacked bundle directory as the input source
func WithDirectory(root string) Option {
	return func(cfg *convertConfig) error {
		if root == "" {
			return fmt.Errorf("directory cannot be empty")
		}
		cfg.directory = &root
		return nil
	}
}

// WithFiles specifies schema files already in memory as the input source
func WithFiles(files ...source.File) Option {
	return func(cfg *convertConfig) error {
		if files == nil {
			files = []source.File{}
		}
		cfg.files = files
		return nil
	}
}

// WithConfig sets the bundle conventions and output settings
// Default: config.Default()
func WithConfig(c *config.Config) Option {
	return func(cfg *convertConfig) error {
		if c == nil {
			return fmt.Errorf("config cannot be nil")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg.cfg = c
		return nil
	}
}

// WithLogger sets the logger for the conversion
//
// Example:
//
//	logger := converter.NewSlogAdapter(slog.Default())
//	result, err := converter.ConvertWithOptions(
//	    converter.WithDirectory("doc"),
//	    converter.WithLogger(logger),
//	)
func WithLogger(l Logger) Option {
	return func(cfg *convertConfig) error {
		if l == nil {
			l = NopLogger{}
		}
		cfg.logger = l
		return nil
	}
}

// WithNullableOptional marks optional properties nullable
// Default: false
func WithNullableOptional(enabled bool) Option {
	return func(cfg *convertConfig) error {
		cfg.nullableOptional = enabled
		return nil
	}
}

// WithFixes selects the fixes to run, overriding the configuration.
// Passing no fix types disables the fixer.
func WithFixes(fixes ...fixer.FixType) Option {
	return func(cfg *convertConfig) error {
		for _, ft := range fixes {
			if _, err := fixer.ParseFixType(string(ft)); err != nil {
				return err
			}
		}
		cfg.fixes = fixes
		cfg.disableFixes = len(fixes) == 0
		return nil
	}
}

// WithCheckRefs runs the reference checker over the merged schemas
// Default: false
func WithCheckRefs(enabled bool) Option {
	return func(cfg *convertConfig) error {
		cfg.checkRefs = enabled
		return nil
	}
}

// WithStrictMode fails the conversion on any warning
// Default: false
func WithStrictMode(enabled bool) Option {
	return func(cfg *convertConfig) error {
		cfg.strictMode = enabled
		return nil
	}
}

// WithIncludeInfo enables or disables informational messages
// Default: true
func WithIncludeInfo(enabled bool) Option {
	return func(cfg *convertConfig) error {
		cfg.includeInfo = enabled
		return nil
	}
}
