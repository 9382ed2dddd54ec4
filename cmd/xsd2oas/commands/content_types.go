package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/erraggy/xsd2oas/converter"
	"github.com/erraggy/xsd2oas/internal/cliutil"
)

// ContentTypesFlags contains flags for the content-types command
type ContentTypesFlags struct {
	Config  string
	Format  string
	Lookup  string
	Verbose bool
}

// SetupContentTypesFlags creates and configures a FlagSet for the content-types command.
func SetupContentTypesFlags() (*flag.FlagSet, *ContentTypesFlags) {
	fs := flag.NewFlagSet("content-types", flag.ContinueOnError)
	flags := &ContentTypesFlags{}

	fs.StringVar(&flags.Config, "c", "", "TOML configuration file (default: built-in bundle conventions)")
	fs.StringVar(&flags.Config, "config", "", "TOML configuration file (default: built-in bundle conventions)")
	fs.StringVar(&flags.Format, "f", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Lookup, "lookup", "", "print only the schema name for this media type")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log debug records to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: xsd2oas content-types [flags] <bundle.zip|directory>\n\n")
		cliutil.Writef(fs.Output(), "List the vendor media types declared in a bundle and the schema each one maps to.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  xsd2oas content-types vcloud-api-doc.zip\n")
		cliutil.Writef(fs.Output(), "  xsd2oas content-types -f json doc/ > content-types.json\n")
		cliutil.Writef(fs.Output(), "  xsd2oas content-types --lookup application/vnd.vmware.vcloud.task+xml doc/\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Table printed, or media type found\n")
		cliutil.Writef(fs.Output(), "  1    Conversion failed, or media type not found\n")
	}

	return fs, flags
}

// HandleContentTypes executes the content-types command
func HandleContentTypes(args []string) error {
	fs, flags := SetupContentTypesFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("content-types command requires exactly one bundle path (zip archive or directory)")
	}

	if err := ValidateReportFormat(flags.Format); err != nil {
		return err
	}

	cfg, err := LoadConfig(flags.Config)
	if err != nil {
		return err
	}

	// The table comes straight from type annotations, so fixes are skipped.
	result, err := converter.ConvertWithOptions(
		converter.WithBundle(fs.Arg(0)),
		converter.WithConfig(cfg),
		converter.WithLogger(NewLogger(os.Stderr, flags.Verbose)),
		converter.WithFixes(),
		converter.WithIncludeInfo(false),
	)
	if err != nil {
		return fmt.Errorf("converting bundle: %w", err)
	}

	if flags.Lookup != "" {
		name, ok := result.ContentTypes.Get(flags.Lookup)
		if !ok {
			return fmt.Errorf("no schema declares content type %q", flags.Lookup)
		}
		cliutil.Writef(os.Stdout, "%s\n", name)
		return nil
	}

	if flags.Format != FormatText {
		return OutputStructured(os.Stdout, result.ContentTypes, flags.Format)
	}

	table := cliutil.NewTable(os.Stdout, "CONTENT TYPE", "SCHEMA")
	for mediaType, name := range result.ContentTypes.All() {
		table.Row(mediaType, name)
	}
	return table.Flush()
}
