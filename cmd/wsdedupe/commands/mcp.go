package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/erraggy/wsdedupe/internal/cliutil"
	"github.com/erraggy/wsdedupe/internal/mcpserver"
)

// MCPFlags contains flags for the mcp command
type MCPFlags struct {
	EnvFile string
}

// SetupMCPFlags creates and configures a FlagSet for the mcp command.
// Returns the FlagSet and an MCPFlags struct with bound flag variables.
func SetupMCPFlags() (*flag.FlagSet, *MCPFlags) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	flags := &MCPFlags{}

	fs.StringVar(&flags.EnvFile, "env-file", "", "load WSDEDUPE_* settings from this file (default: .env if present)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: wsdedupe mcp [flags]\n\n")
		cliutil.Writef(fs.Output(), "Serve the dedupe, locate, lockfile and dep_path_to_ref tools over the\n")
		cliutil.Writef(fs.Output(), "Model Context Protocol on stdin/stdout.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nEnvironment:\n")
		cliutil.Writef(fs.Output(), "  WSDEDUPE_CACHE_ENABLED      cache parsed states (default: true)\n")
		cliutil.Writef(fs.Output(), "  WSDEDUPE_CACHE_MAX_SIZE     maximum cached states (default: 10)\n")
		cliutil.Writef(fs.Output(), "  WSDEDUPE_CACHE_TTL          cache entry lifetime (default: 15m)\n")
		cliutil.Writef(fs.Output(), "  WSDEDUPE_MAX_INLINE_SIZE    maximum inline state size in bytes (default: 10485760)\n")
		cliutil.Writef(fs.Output(), "  WSDEDUPE_CONCURRENCY        projects evaluated in parallel (default: 1)\n")
		cliutil.Writef(fs.Output(), "  WSDEDUPE_PIN_INJECTED       keep injected dependencies materialized (default: false)\n")
	}

	return fs, flags
}

// HandleMCP executes the mcp command
func HandleMCP(args []string) error {
	fs, flags := SetupMCPFlags()

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

	if err := loadEnv(flags.EnvFile); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}

// loadEnv loads an explicit env file, or .env from the working directory when
// one exists. Variables already set in the environment take precedence.
func loadEnv(path string) error {
	if path == "" {
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}
