package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/restcodec/internal/mcpserver"
)

// SetupMCPFlags creates the FlagSet for the mcp command. It takes no flags;
// the server is configured through RESTCODEC_* environment variables.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: restcodec mcp\n\n")
		Writef(output, "Run an MCP server over stdio exposing the operations, serialize and deserialize tools.\n\n")
		Writef(output, "Environment:\n")
		Writef(output, "  RESTCODEC_CACHE_ENABLED       cache loaded descriptions (default true)\n")
		Writef(output, "  RESTCODEC_CACHE_FILE_TTL      cache TTL for description files (default 15m)\n")
		Writef(output, "  RESTCODEC_CACHE_URL_TTL       cache TTL for fetched descriptions (default 5m)\n")
		Writef(output, "  RESTCODEC_OPERATIONS_LIMIT    default page size of the operations tool (default 100)\n")
		Writef(output, "  RESTCODEC_VALIDATE            validate values before serializing (default false)\n")
		Writef(output, "  RESTCODEC_USER_AGENT          User-Agent of serialized requests\n")
		Writef(output, "  RESTCODEC_ALLOW_PRIVATE_IPS   allow fetching descriptions from private addresses\n")
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

	if err := mcpserver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
