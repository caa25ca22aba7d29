// Package commands provides CLI command handlers for wsdedupe.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erraggy/wsdedupe/depgraph"
	"github.com/erraggy/wsdedupe/internal/cliutil"
	"github.com/erraggy/wsdedupe/internal/fileutil"
	"github.com/erraggy/wsdedupe/internal/pathutil"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured outputs data in the specified format (json or yaml) to stdout.
// Returns an error if marshaling fails.
func OutputStructured(data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	fmt.Println(strings.TrimRight(string(bytes), "\n"))
	return nil
}

// FormatStatePath returns a display-friendly path for a state input.
func FormatStatePath(statePath string) string {
	if statePath == StdinFilePath {
		return "<stdin>"
	}
	return statePath
}

// LoadState reads a resolution state from a file or, for "-", from stdin.
func LoadState(statePath string) (*depgraph.State, error) {
	if statePath != StdinFilePath {
		return depgraph.LoadState(statePath)
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return depgraph.ParseState(data, FormatStatePath(statePath))
}

// WriteOutput writes data to outputPath, or to stdout when outputPath is empty.
func WriteOutput(outputPath string, data []byte) error {
	if outputPath == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("writing to stdout: %w", err)
		}
		return nil
	}
	cleaned, err := pathutil.SanitizeOutputPath(outputPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cleaned, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// ProjectList collects repeated -project flags.
type ProjectList []depgraph.ProjectID

// String implements flag.Value.
func (p *ProjectList) String() string {
	ids := make([]string, len(*p))
	for i, id := range *p {
		ids[i] = string(id)
	}
	return strings.Join(ids, ",")
}

// Set implements flag.Value. Comma-separated values add several projects.
func (p *ProjectList) Set(value string) error {
	for part := range strings.SplitSeq(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := pathutil.NormalizeProjectID(part); !ok {
			return fmt.Errorf("invalid project id %q", part)
		}
		*p = append(*p, depgraph.ProjectID(part))
	}
	return nil
}

var titleCaser = cases.Title(language.English)

// Label turns an identifier such as "children-mismatch" into "Children Mismatch".
func Label(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "-", " "))
}

// writeTable writes rows with columns padded to the widest cell.
func writeTable(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for _, row := range append([][]string{header}, rows...) {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}
	for _, row := range append([][]string{header}, rows...) {
		var b strings.Builder
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)+2))
		}
		cliutil.Writef(w, "  %s\n", b.String())
	}
}
