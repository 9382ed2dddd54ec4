package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/xsd2oas/internal/cliutil"
	"github.com/erraggy/xsd2oas/internal/mcpserver"
)

// SetupMCPFlags creates the FlagSet for the mcp command. It takes no flags;
// settings come from XSD2OAS_* environment variables.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: xsd2oas mcp\n\n")
		cliutil.Writef(fs.Output(), "Serve the converter as Model Context Protocol tools over stdio.\n\n")
		cliutil.Writef(fs.Output(), "Environment:\n")
		cliutil.Writef(fs.Output(), "  XSD2OAS_WALK_LIMIT         default result limit for walk_schemas (default: 100)\n")
		cliutil.Writef(fs.Output(), "  XSD2OAS_WALK_DETAIL_LIMIT  default limit when detail=true (default: 25)\n")
		cliutil.Writef(fs.Output(), "  XSD2OAS_CONFIG             TOML configuration applied to every bundle\n")
	}

	return fs
}

// HandleMCP executes the mcp command
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return mcpserver.Run(ctx)
}
