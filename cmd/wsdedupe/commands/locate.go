package commands

import (
	"errors"
	"flag"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/erraggy/wsdedupe/dedupe"
	"github.com/erraggy/wsdedupe/internal/cliutil"
)

// LocateFlags contains flags for the locate command
type LocateFlags struct {
	Projects ProjectList
	Format   string
}

// SetupLocateFlags creates and configures a FlagSet for the locate command.
// Returns the FlagSet and a LocateFlags struct with bound flag variables.
func SetupLocateFlags() (*flag.FlagSet, *LocateFlags) {
	fs := flag.NewFlagSet("locate", flag.ContinueOnError)
	flags := &LocateFlags{}

	fs.Var(&flags.Projects, "project", "consuming project to scan (repeatable; default: all projects)")
	fs.Var(&flags.Projects, "p", "consuming project to scan (repeatable; default: all projects)")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: wsdedupe locate [flags] <state|->\n\n")
		cliutil.Writef(fs.Output(), "List direct dependencies that resolve to a materialized copy of another\n")
		cliutil.Writef(fs.Output(), "workspace project, and whether each copy could be replaced by a link.\n")
		cliutil.Writef(fs.Output(), "The state is not modified.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  wsdedupe locate state.yaml\n")
		cliutil.Writef(fs.Output(), "  wsdedupe locate -project packages/app -format json state.yaml\n")
	}

	return fs, flags
}

// locateEntry is one located edge with its eligibility.
type locateEntry struct {
	Project    string                 `json:"project"              yaml:"project"`
	Alias      string                 `json:"alias"                yaml:"alias"`
	Target     string                 `json:"target"               yaml:"target"`
	DepPath    string                 `json:"depPath"              yaml:"depPath"`
	Eligible   bool                   `json:"eligible"             yaml:"eligible"`
	Mismatches []dedupe.ChildMismatch `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
}

// HandleLocate executes the locate command
func HandleLocate(args []string) error {
	fs, flags := SetupLocateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("locate command requires exactly one state file path or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	state, err := LoadState(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	projects, err := dedupe.SelectProjects(state, flags.Projects)
	if err != nil {
		return err
	}

	located, err := dedupe.LocateInjected(state, projects)
	if err != nil {
		return err
	}
	dedupeMap, skipped := dedupe.BuildDedupeMap(state, located, dedupe.AllowAll)
	mismatches := make(map[string][]dedupe.ChildMismatch, len(skipped))
	for _, s := range skipped {
		mismatches[string(s.Project)+"\x00"+s.Alias] = s.Mismatches
	}

	entries := make([]locateEntry, 0, located.Count())
	for _, id := range located.ProjectIDs() {
		for _, alias := range slices.Sorted(maps.Keys(located[id])) {
			dep := located[id][alias]
			_, eligible := dedupeMap[id][alias]
			entries = append(entries, locateEntry{
				Project:    string(id),
				Alias:      alias,
				Target:     string(dep.Target),
				DepPath:    string(dep.DepPath),
				Eligible:   eligible,
				Mismatches: mismatches[string(id)+"\x00"+alias],
			})
		}
	}

	if flags.Format != FormatText {
		return OutputStructured(entries, flags.Format)
	}

	if len(entries) == 0 {
		cliutil.Writef(os.Stderr, "No injected workspace dependencies found\n")
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := "linkable"
		if !e.Eligible {
			status = Label(string(dedupe.SkipChildrenMismatch))
		}
		rows = append(rows, []string{e.Project, e.Alias, e.Target, e.DepPath, status})
	}
	writeTable(os.Stdout, []string{"PROJECT", "ALIAS", "TARGET", "DEPPATH", "STATUS"}, rows)
	cliutil.Writef(os.Stderr, "\nFound %d injected %s in %d %s\n",
		len(entries), cliutil.Plural(len(entries), "edge"),
		len(located), cliutil.Plural(len(located), "project"))
	return nil
}
