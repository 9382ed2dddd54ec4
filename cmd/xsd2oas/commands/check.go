package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/erraggy/xsd2oas/converter"
	"github.com/erraggy/xsd2oas/internal/cliutil"
	"github.com/erraggy/xsd2oas/validator"
)

// ErrCheckFailed is returned when the reference check found errors.
var ErrCheckFailed = errors.New("reference check failed")

// CheckFlags contains flags for the check command
type CheckFlags struct {
	Config     string
	Format     string
	NoCompile  bool
	Strict     bool
	NoWarnings bool
	Quiet      bool
	Verbose    bool
}

// CheckIssue is one finding in the structured check report.
type CheckIssue struct {
	Severity string `json:"severity" yaml:"severity"`
	Path     string `json:"path" yaml:"path"`
	Message  string `json:"message" yaml:"message"`
	Detail   string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// CheckReport is the structured output of the check command.
type CheckReport struct {
	Bundle   string       `json:"bundle" yaml:"bundle"`
	Valid    bool         `json:"valid" yaml:"valid"`
	Schemas  int          `json:"schemas" yaml:"schemas"`
	Refs     int          `json:"refs" yaml:"refs"`
	Errors   int          `json:"errors" yaml:"errors"`
	Warnings int          `json:"warnings" yaml:"warnings"`
	Issues   []CheckIssue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// SetupCheckFlags creates and configures a FlagSet for the check command.
func SetupCheckFlags() (*flag.FlagSet, *CheckFlags) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	flags := &CheckFlags{}

	fs.StringVar(&flags.Config, "c", "", "TOML configuration file (default: built-in bundle conventions)")
	fs.StringVar(&flags.Config, "config", "", "TOML configuration file (default: built-in bundle conventions)")
	fs.StringVar(&flags.Format, "f", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.NoCompile, "no-compile", false, "only check that references resolve")
	fs.BoolVar(&flags.Strict, "strict", false, "treat warnings as errors")
	fs.BoolVar(&flags.NoWarnings, "no-warnings", false, "suppress warnings (only show errors)")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only report failures")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only report failures")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log debug records to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: xsd2oas check [flags] <bundle.zip|directory>\n\n")
		cliutil.Writef(fs.Output(), "Convert a bundle and check the generated schemas: every $ref must resolve\n")
		cliutil.Writef(fs.Output(), "and every schema must compile as JSON Schema.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nOutput Formats:\n")
		cliutil.Writef(fs.Output(), "  text (default)  Human-readable text output\n")
		cliutil.Writef(fs.Output(), "  json            JSON format for programmatic processing\n")
		cliutil.Writef(fs.Output(), "  yaml            YAML format for programmatic processing\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  xsd2oas check vcloud-api-doc.zip\n")
		cliutil.Writef(fs.Output(), "  xsd2oas check --strict doc/\n")
		cliutil.Writef(fs.Output(), "  xsd2oas check -f json vcloud-api-doc.zip | jq '.valid'\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - Dangling references are warnings; they fail only in --strict mode\n")
		cliutil.Writef(fs.Output(), "  - Schemas that do not compile are errors\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Check passed\n")
		cliutil.Writef(fs.Output(), "  1    Check failed\n")
	}

	return fs, flags
}

// HandleCheck executes the check command
func HandleCheck(args []string) error {
	fs, flags := SetupCheckFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("check command requires exactly one bundle path (zip archive or directory)")
	}

	bundlePath := fs.Arg(0)

	if err := ValidateReportFormat(flags.Format); err != nil {
		return err
	}

	cfg, err := LoadConfig(flags.Config)
	if err != nil {
		return err
	}

	result, err := converter.ConvertWithOptions(
		converter.WithBundle(bundlePath),
		converter.WithConfig(cfg),
		converter.WithLogger(NewLogger(os.Stderr, flags.Verbose)),
		converter.WithIncludeInfo(false),
	)
	if err != nil {
		return fmt.Errorf("converting bundle: %w", err)
	}

	vres, err := validator.ValidateWithOptions(
		validator.WithSchemas(result.Schemas),
		validator.WithIncludeWarnings(!flags.NoWarnings),
		validator.WithCompileSchemas(!flags.NoCompile),
	)
	if err != nil {
		return fmt.Errorf("checking schemas: %w", err)
	}

	report := buildCheckReport(bundlePath, vres, flags.Strict)

	if flags.Format != FormatText {
		if err := OutputStructured(os.Stdout, report, flags.Format); err != nil {
			return err
		}
	} else if !flags.Quiet || !report.Valid {
		printCheckReport(report)
	}

	if !report.Valid {
		return ErrCheckFailed
	}
	return nil
}

// buildCheckReport summarizes a validation result. Strict turns warnings
// into failures.
func buildCheckReport(bundle string, vres *validator.ValidationResult, strict bool) *CheckReport {
	report := &CheckReport{
		Bundle:   bundle,
		Valid:    vres.Valid && (!strict || vres.WarningCount == 0),
		Schemas:  vres.SchemaCount,
		Refs:     vres.RefCount,
		Errors:   vres.ErrorCount,
		Warnings: vres.WarningCount,
	}
	for _, list := range [][]validator.ValidationError{vres.Errors, vres.Warnings} {
		for _, e := range list {
			report.Issues = append(report.Issues, CheckIssue{
				Severity: e.Severity.String(),
				Path:     e.Path,
				Message:  e.Message,
				Detail:   checkDetail(e),
			})
		}
	}
	return report
}

// checkDetail returns the offending reference or compiler message.
func checkDetail(e validator.ValidationError) string {
	if e.Context != "" {
		return e.Context
	}
	if s, ok := e.Value.(string); ok {
		return s
	}
	return ""
}

func printCheckReport(report *CheckReport) {
	cliutil.Writef(os.Stdout, "Schema Reference Check\n")
	cliutil.Writef(os.Stdout, "======================\n\n")
	cliutil.Writef(os.Stdout, "Bundle: %s\n", report.Bundle)
	cliutil.Writef(os.Stdout, "Schemas: %d\n", report.Schemas)
	cliutil.Writef(os.Stdout, "References: %d\n\n", report.Refs)

	for _, issue := range report.Issues {
		cliutil.Writef(os.Stdout, "  [%s] %s: %s\n", issue.Severity, issue.Path, issue.Message)
		if issue.Detail != "" {
			cliutil.Writef(os.Stdout, "      %s\n", issue.Detail)
		}
	}
	if len(report.Issues) > 0 {
		cliutil.Writef(os.Stdout, "\n")
	}

	if report.Valid {
		cliutil.Writef(os.Stdout, "✓ Check passed")
		if report.Warnings > 0 {
			cliutil.Writef(os.Stdout, " (%d warnings)", report.Warnings)
		}
		cliutil.Writef(os.Stdout, "\n")
		return
	}
	cliutil.Writef(os.Stdout, "✗ Check failed: %d error(s), %d warning(s)\n", report.Errors, report.Warnings)
}
