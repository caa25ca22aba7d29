package main

import (
	"fmt"
	"os"

	"github.com/erraggy/wsdedupe"
	"github.com/erraggy/wsdedupe/cmd/wsdedupe/commands"
)

var handlers = map[string]func([]string) error{
	"dedupe":   commands.HandleDedupe,
	"locate":   commands.HandleLocate,
	"lockfile": commands.HandleLockfile,
	"ref":      commands.HandleRef,
	"mcp":      commands.HandleMCP,
}

// knownCommands lists every command name for typo suggestions.
var knownCommands = []string{"dedupe", "locate", "lockfile", "ref", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("wsdedupe v%s\n", wsdedupe.Version())
		fmt.Printf("commit: %s\n", wsdedupe.Commit())
		fmt.Printf("built: %s\n", wsdedupe.BuildTime())
		fmt.Printf("go: %s\n", wsdedupe.GoVersion())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	handler, ok := handlers[command]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
	if err := handler(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// suggestCommand returns the closest known command within edit distance 2,
// or "" when nothing is close enough.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, cmd := range knownCommands {
		if d := levenshtein(input, cmd); d < bestDist {
			best, bestDist = cmd, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Println(`wsdedupe - Dedupe injected workspace dependencies

Usage:
  wsdedupe <command> [flags] [args]

Commands:
  dedupe     Replace redundant injected workspace dependencies with links
  locate     List injected workspace dependencies and whether they can be linked
  lockfile   Render lockfile importers and packages from a resolution state
  ref        Print the lockfile version reference for a dependency path
  mcp        Serve the tools over the Model Context Protocol (stdio)
  version    Show version information
  help       Show this help message

Examples:
  wsdedupe dedupe state.yaml > deduped.yaml
  wsdedupe locate -project packages/app state.yaml
  wsdedupe lockfile -dedupe state.yaml
  wsdedupe ref b@file:packages/b

Run 'wsdedupe <command> --help' for more information on a command.`)
}
