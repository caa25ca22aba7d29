package commands

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/erraggy/wsdedupe"
	"github.com/erraggy/wsdedupe/dedupe"
	"github.com/erraggy/wsdedupe/depgraph"
	"github.com/erraggy/wsdedupe/internal/cliutil"
)

// DedupeFlags contains flags for the dedupe command
type DedupeFlags struct {
	Projects    ProjectList
	PinInjected bool
	Concurrency int
	Format      string
	Output      string
	Quiet       bool
	Verbose     bool
	NoValidate  bool
}

// SetupDedupeFlags creates and configures a FlagSet for the dedupe command.
// Returns the FlagSet and a DedupeFlags struct with bound flag variables.
func SetupDedupeFlags() (*flag.FlagSet, *DedupeFlags) {
	fs := flag.NewFlagSet("dedupe", flag.ContinueOnError)
	flags := &DedupeFlags{}

	fs.Var(&flags.Projects, "project", "consuming project to scan (repeatable; default: all projects)")
	fs.Var(&flags.Projects, "p", "consuming project to scan (repeatable; default: all projects)")
	fs.BoolVar(&flags.PinInjected, "pin-injected", false, "keep every injected workspace dependency materialized")
	fs.IntVar(&flags.Concurrency, "concurrency", 1, "number of projects evaluated in parallel")
	fs.StringVar(&flags.Format, "format", FormatText, "report format: text, json, or yaml")
	fs.StringVar(&flags.Output, "o", "", "write the rewritten state to this file (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "write the rewritten state to this file (default: stdout)")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the state, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the state, no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "v", false, "log every located and evaluated edge to stderr")
	fs.BoolVar(&flags.NoValidate, "no-validate", false, "skip the up-front consistency check of the whole state")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: wsdedupe dedupe [flags] <state|->\n\n")
		cliutil.Writef(fs.Output(), "Replace injected workspace dependencies with links where the materialized\n")
		cliutil.Writef(fs.Output(), "copy resolves exactly the dependencies its target project resolves.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nOutput:\n")
		cliutil.Writef(fs.Output(), "  With -format text the rewritten state is written to stdout (or -o) and\n")
		cliutil.Writef(fs.Output(), "  a report to stderr. With -format json|yaml the report is written to\n")
		cliutil.Writef(fs.Output(), "  stdout and the rewritten state only to -o.\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  wsdedupe dedupe state.yaml > deduped.yaml\n")
		cliutil.Writef(fs.Output(), "  wsdedupe dedupe -project packages/app -project packages/cli state.yaml\n")
		cliutil.Writef(fs.Output(), "  wsdedupe dedupe -format json -o deduped.yaml state.yaml\n")
		cliutil.Writef(fs.Output(), "  cat state.yaml | wsdedupe dedupe -q - | wsdedupe lockfile -\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Stage completed (with or without rewrites)\n")
		cliutil.Writef(fs.Output(), "  1    Invalid flags, unreadable state, or inconsistent state\n")
	}

	return fs, flags
}

// HandleDedupe executes the dedupe command
func HandleDedupe(args []string) error {
	fs, flags := SetupDedupeFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("dedupe command requires exactly one state file path or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	statePath := fs.Arg(0)
	state, err := LoadState(statePath)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}

	opts := []dedupe.Option{
		dedupe.WithState(state),
		dedupe.WithProjects(flags.Projects...),
		dedupe.WithInjectWorkspacePackages(flags.PinInjected),
		dedupe.WithConcurrency(flags.Concurrency),
		dedupe.WithValidation(!flags.NoValidate),
	}
	if flags.Verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, dedupe.WithLogger(dedupe.NewSlogAdapter(slog.New(handler))))
	}

	startTime := time.Now()
	result, err := dedupe.DedupeWithOptions(opts...)
	if err != nil {
		return err
	}
	totalTime := time.Since(startTime)

	data, err := depgraph.MarshalState(result.State)
	if err != nil {
		return err
	}

	if flags.Format != FormatText {
		if flags.Output != "" {
			if err := WriteOutput(flags.Output, data); err != nil {
				return err
			}
		}
		return OutputStructured(result, flags.Format)
	}

	if !flags.Quiet {
		printDedupeReport(statePath, result, totalTime)
	}
	if err := WriteOutput(flags.Output, data); err != nil {
		return err
	}
	if flags.Output != "" && !flags.Quiet {
		cliutil.Writef(os.Stderr, "\nOutput written to: %s\n", flags.Output)
	}
	return nil
}

func printDedupeReport(statePath string, result *dedupe.Result, totalTime time.Duration) {
	w := os.Stderr
	cliutil.Header(w, "Workspace Injected Dependency Dedupe")
	cliutil.Writef(w, "wsdedupe version: %s\n", wsdedupe.Version())
	cliutil.Writef(w, "State: %s\n", FormatStatePath(statePath))

	if result.Disabled {
		cliutil.Writef(w, "\nDedupe disabled by configuration; state left unchanged\n")
		return
	}

	stats := result.Stats
	cliutil.Writef(w, "Projects Scanned: %d\n", stats.ProjectsScanned)
	cliutil.Writef(w, "Edges Scanned: %d\n", stats.EdgesScanned)
	cliutil.Writef(w, "Injected: %d\n", stats.Injected)
	cliutil.Writef(w, "Total Time: %v\n\n", totalTime)

	if len(result.Deduped) > 0 {
		cliutil.Writef(w, "Linked (%d):\n", len(result.Deduped))
		rows := make([][]string, 0, len(result.Deduped))
		for _, e := range result.Deduped {
			rows = append(rows, []string{string(e.Project), e.Alias, e.PkgID, string(e.DepPath)})
		}
		writeTable(w, []string{"PROJECT", "ALIAS", "LINK", "REPLACED"}, rows)
		cliutil.Writef(w, "\n")
	}

	if len(result.Skipped) > 0 {
		cliutil.Writef(w, "Kept Materialized (%d):\n", len(result.Skipped))
		rows := make([][]string, 0, len(result.Skipped))
		for _, s := range result.Skipped {
			rows = append(rows, []string{string(s.Project), s.Alias, string(s.Target), Label(string(s.Reason))})
		}
		writeTable(w, []string{"PROJECT", "ALIAS", "TARGET", "REASON"}, rows)
		for _, s := range result.Skipped {
			for _, m := range s.Mismatches {
				canonical := string(m.Canonical)
				if canonical == "" {
					canonical = "(not a dependency of " + string(s.Target) + ")"
				}
				cliutil.Writef(w, "    %s/%s: %s resolves to %s, project has %s\n",
					s.Project, s.Alias, m.Alias, m.Copy, canonical)
			}
		}
		cliutil.Writef(w, "\n")
	}

	if stats.Deduped > 0 {
		cliutil.Writef(w, "✓ Linked %d of %d injected dependencies\n", stats.Deduped, stats.Injected)
	} else {
		cliutil.Writef(w, "✓ No injected dependencies to link\n")
	}
}
