package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/wsdedupe/dedupe"
	"github.com/erraggy/wsdedupe/internal/cliutil"
	"github.com/erraggy/wsdedupe/lockfile"
)

// LockfileFlags contains flags for the lockfile command
type LockfileFlags struct {
	Dedupe      bool
	PinInjected bool
	Output      string
}

// SetupLockfileFlags creates and configures a FlagSet for the lockfile command.
// Returns the FlagSet and a LockfileFlags struct with bound flag variables.
func SetupLockfileFlags() (*flag.FlagSet, *LockfileFlags) {
	fs := flag.NewFlagSet("lockfile", flag.ContinueOnError)
	flags := &LockfileFlags{}

	fs.BoolVar(&flags.Dedupe, "dedupe", false, "run the dedupe stage before rendering")
	fs.BoolVar(&flags.PinInjected, "pin-injected", false, "with -dedupe, keep every injected workspace dependency materialized")
	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: wsdedupe lockfile [flags] <state|->\n\n")
		cliutil.Writef(fs.Output(), "Render the importers and packages sections of a lockfile from a\n")
		cliutil.Writef(fs.Output(), "resolution state. Packages no importer reaches are left out.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  wsdedupe lockfile state.yaml\n")
		cliutil.Writef(fs.Output(), "  wsdedupe lockfile -dedupe -o wsdedupe-lock.yaml state.yaml\n")
		cliutil.Writef(fs.Output(), "  wsdedupe dedupe -q state.yaml | wsdedupe lockfile -\n")
	}

	return fs, flags
}

// HandleLockfile executes the lockfile command
func HandleLockfile(args []string) error {
	fs, flags := SetupLockfileFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("lockfile command requires exactly one state file path or '-' for stdin")
	}
	if flags.PinInjected && !flags.Dedupe {
		return fmt.Errorf("-pin-injected requires -dedupe")
	}

	state, err := LoadState(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}

	if flags.Dedupe {
		if _, err := dedupe.DedupeWithOptions(
			dedupe.WithState(state),
			dedupe.WithInjectWorkspacePackages(flags.PinInjected),
		); err != nil {
			return err
		}
	}

	lf, err := lockfile.FromState(state)
	if err != nil {
		return fmt.Errorf("rendering lockfile: %w", err)
	}
	data, err := lockfile.Marshal(lf)
	if err != nil {
		return err
	}
	return WriteOutput(flags.Output, data)
}
