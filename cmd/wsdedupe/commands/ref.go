package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/wsdedupe/depgraph"
	"github.com/erraggy/wsdedupe/internal/cliutil"
)

// RefFlags contains flags for the ref command
type RefFlags struct {
	Alias string
	Name  string
}

// SetupRefFlags creates and configures a FlagSet for the ref command.
// Returns the FlagSet and a RefFlags struct with bound flag variables.
func SetupRefFlags() (*flag.FlagSet, *RefFlags) {
	fs := flag.NewFlagSet("ref", flag.ContinueOnError)
	flags := &RefFlags{}

	fs.StringVar(&flags.Alias, "alias", "", "dependency alias (default: the package name)")
	fs.StringVar(&flags.Name, "name", "", "real package name (default: derived from the dependency path)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: wsdedupe ref [flags] <depPath>...\n\n")
		cliutil.Writef(fs.Output(), "Print the version reference a lockfile stores for a dependency path.\n")
		cliutil.Writef(fs.Output(), "The package name prefix is dropped when the alias matches the name.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  wsdedupe ref b@file:packages/b          # file:packages/b\n")
		cliutil.Writef(fs.Output(), "  wsdedupe ref -alias pos is-positive@1.0.0  # is-positive@1.0.0\n")
		cliutil.Writef(fs.Output(), "  wsdedupe ref @scope/pkg@2.0.0           # 2.0.0\n")
	}

	return fs, flags
}

// HandleRef executes the ref command
func HandleRef(args []string) error {
	fs, flags := SetupRefFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("ref command requires at least one dependency path")
	}

	for _, depPath := range fs.Args() {
		name := flags.Name
		if name == "" {
			name = depgraph.NameFromDepPath(depPath)
		}
		if name == "" {
			fmt.Println(depPath)
			continue
		}
		alias := flags.Alias
		if alias == "" {
			alias = name
		}
		fmt.Println(depgraph.DepPathToRef(depPath, alias, name))
	}
	return nil
}
