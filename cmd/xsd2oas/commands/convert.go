package commands

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/xsd2oas"
	"github.com/erraggy/xsd2oas/converter"
	"github.com/erraggy/xsd2oas/fixer"
	"github.com/erraggy/xsd2oas/internal/cliutil"
	"go.yaml.in/yaml/v4"
)

// ErrConversionFailed is returned when a conversion finished with errors.
var ErrConversionFailed = errors.New("conversion failed")

// ConvertFlags contains flags for the convert command
type ConvertFlags struct {
	Config       string
	Output       string
	Format       string
	ContentTypes string
	Title        string
	APIVersion   string
	Nullable     bool
	Fixes        string
	NoFix        bool
	CheckRefs    bool
	Strict       bool
	NoWarnings   bool
	Quiet        bool
	Verbose      bool
}

// SetupConvertFlags creates and configures a FlagSet for the convert command.
// Returns the FlagSet and a ConvertFlags struct with bound flag variables.
func SetupConvertFlags() (*flag.FlagSet, *ConvertFlags) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	flags := &ConvertFlags{}

	fs.StringVar(&flags.Config, "c", "", "TOML configuration file (default: built-in bundle conventions)")
	fs.StringVar(&flags.Config, "config", "", "TOML configuration file (default: built-in bundle conventions)")
	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Format, "f", "", "document format: json or yaml (default: from configuration)")
	fs.StringVar(&flags.Format, "format", "", "document format: json or yaml (default: from configuration)")
	fs.StringVar(&flags.ContentTypes, "content-types", "", "write the content-type table as JSON to this file")
	fs.StringVar(&flags.Title, "title", "", "info.title of the generated document")
	fs.StringVar(&flags.APIVersion, "version", "", "info.version of the generated document")
	fs.BoolVar(&flags.Nullable, "nullable", false, "mark optional properties nullable")
	fs.StringVar(&flags.Fixes, "fix", "", "comma-separated fixes to run (default: all)")
	fs.BoolVar(&flags.NoFix, "no-fix", false, "skip the schema fixer")
	fs.BoolVar(&flags.CheckRefs, "check-refs", false, "check that every $ref resolves and every schema compiles")
	fs.BoolVar(&flags.Strict, "strict", false, "fail on any conversion issues (even warnings)")
	fs.BoolVar(&flags.NoWarnings, "no-warnings", false, "suppress info messages")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log debug records to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: xsd2oas convert [flags] <bundle.zip|directory>\n\n")
		cliutil.Writef(fs.Output(), "Convert the XML schemas of a documentation bundle into an OpenAPI 3.0 document.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nFixes:\n")
		for _, ft := range fixer.AllFixTypes() {
			cliutil.Writef(fs.Output(), "  %s\n", ft)
		}
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  xsd2oas convert vcloud-api-doc.zip -o openapi.json\n")
		cliutil.Writef(fs.Output(), "  xsd2oas convert -f yaml --title 'vCloud API' --version 9.0 doc/ -o openapi.yaml\n")
		cliutil.Writef(fs.Output(), "  xsd2oas convert --content-types types.json -c bundle.toml vcloud-api-doc.zip\n")
		cliutil.Writef(fs.Output(), "  xsd2oas convert --fix stub-ovf --check-refs vcloud-api-doc.zip\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Conversion successful\n")
		cliutil.Writef(fs.Output(), "  1    Conversion failed, or issues found in --strict mode\n")
	}

	return fs, flags
}

// HandleConvert executes the convert command
func HandleConvert(args []string) error {
	fs, flags := SetupConvertFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("convert command requires exactly one bundle path (zip archive or directory)")
	}

	bundlePath := fs.Arg(0)

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	for _, out := range []string{flags.Output, flags.ContentTypes} {
		if out == "" {
			continue
		}
		if err := ValidateOutputPath(out, []string{bundlePath}); err != nil {
			return err
		}
	}
	if flags.Output != "" && flags.Output == flags.ContentTypes {
		return fmt.Errorf("--output and --content-types must name different files")
	}

	opts, err := flags.options(bundlePath)
	if err != nil {
		return err
	}

	startTime := time.Now()
	result, convErr := converter.ConvertWithOptions(opts...)
	if result == nil {
		return fmt.Errorf("converting bundle: %w", convErr)
	}
	totalTime := time.Since(startTime)

	if !flags.Quiet {
		cliutil.Writef(os.Stderr, "XSD to OpenAPI Converter\n")
		cliutil.Writef(os.Stderr, "========================\n\n")
		cliutil.Writef(os.Stderr, "xsd2oas version: %s\n", xsd2oas.Version())
		cliutil.Writef(os.Stderr, "Bundle: %s\n", bundlePath)
		cliutil.Writef(os.Stderr, "Schema Files: %d\n", result.Stats.Files)
		cliutil.Writef(os.Stderr, "Types: %d (%d objects, %d simple)\n",
			result.Stats.Types, result.Stats.Objects, result.Stats.SimpleTypes)
		cliutil.Writef(os.Stderr, "Schemas: %d\n", result.Schemas.Len())
		cliutil.Writef(os.Stderr, "Content Types: %d\n", result.Stats.ContentTypes)
		cliutil.Writef(os.Stderr, "Fixes: %d\n", len(result.Fixes))
		cliutil.Writef(os.Stderr, "Total Time: %v\n\n", totalTime)

		printIssues(os.Stderr, "Conversion Issues", result.Issues)

		if convErr == nil && result.Success {
			cliutil.Writef(os.Stderr, "✓ Conversion successful")
			if result.InfoCount > 0 || result.WarningCount > 0 {
				cliutil.Writef(os.Stderr, " (%d info, %d warnings)", result.InfoCount, result.WarningCount)
			}
			cliutil.Writef(os.Stderr, "\n")
		} else {
			cliutil.Writef(os.Stderr, "✗ Conversion completed with %d error(s)",
				result.ErrorCount+result.CriticalCount)
			if result.WarningCount > 0 {
				cliutil.Writef(os.Stderr, ", %d warning(s)", result.WarningCount)
			}
			cliutil.Writef(os.Stderr, "\n")
		}
	}

	if convErr != nil {
		return convErr
	}

	data, err := result.Marshal()
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	if err := WriteOutput(flags.Output, data); err != nil {
		return err
	}
	if flags.Output != "" && !flags.Quiet {
		cliutil.Writef(os.Stderr, "\nOutput written to: %s\n", flags.Output)
	}

	if flags.ContentTypes != "" {
		table, err := marshalTable(result.ContentTypes, tableFormat(flags.ContentTypes))
		if err != nil {
			return fmt.Errorf("marshaling content types: %w", err)
		}
		if err := WriteOutput(flags.ContentTypes, table); err != nil {
			return err
		}
		if !flags.Quiet {
			cliutil.Writef(os.Stderr, "Content types written to: %s\n", flags.ContentTypes)
		}
	}

	if !result.Success {
		return ErrConversionFailed
	}
	return nil
}

// options maps the parsed flags to converter options.
func (f *ConvertFlags) options(bundlePath string) ([]converter.Option, error) {
	cfg, err := LoadConfig(f.Config)
	if err != nil {
		return nil, err
	}
	if f.Title != "" {
		cfg.Output.Title = f.Title
	}
	if f.APIVersion != "" {
		cfg.Output.Version = f.APIVersion
	}
	if f.Format != "" {
		cfg.Output.Format = f.Format
	}

	opts := []converter.Option{
		converter.WithBundle(bundlePath),
		converter.WithConfig(cfg),
		converter.WithLogger(NewLogger(os.Stderr, f.Verbose)),
		converter.WithNullableOptional(f.Nullable),
		converter.WithCheckRefs(f.CheckRefs),
		converter.WithStrictMode(f.Strict),
		converter.WithIncludeInfo(!f.NoWarnings),
	}

	switch {
	case f.NoFix && f.Fixes != "":
		return nil, fmt.Errorf("--fix and --no-fix cannot be combined")
	case f.NoFix:
		opts = append(opts, converter.WithFixes())
	case f.Fixes != "":
		fixes, err := ParseFixList(f.Fixes)
		if err != nil {
			return nil, err
		}
		opts = append(opts, converter.WithFixes(fixes...))
	}
	return opts, nil
}

// ParseFixList parses a comma-separated list of fix type names.
func ParseFixList(list string) ([]fixer.FixType, error) {
	var fixes []fixer.FixType
	for name := range strings.SplitSeq(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ft, err := fixer.ParseFixType(name)
		if err != nil {
			return nil, err
		}
		fixes = append(fixes, ft)
	}
	if len(fixes) == 0 {
		return nil, fmt.Errorf("no fix types in %q", list)
	}
	return fixes, nil
}

// tableFormat picks the content-type table format from the file extension.
func tableFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// marshalTable renders the content-type table in the given format.
func marshalTable(table any, format string) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(table)
	}
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
