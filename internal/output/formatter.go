// Package output renders quotes for the console, files and print.
package output

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rgehrsitz/lensquote/internal/domain"
)

// Formatter renders a quote into bytes
type Formatter interface {
	Name() string
	Format(q *domain.Quote) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(q *domain.Quote) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(q *domain.Quote) ([]byte, error) { return f.F(q) }

var registry = map[string]Formatter{}

var aliases = map[string]string{
	"verbose":         "console",
	"console-verbose": "console",
	"text":            "console-lite",
	"summary":         "console-lite",
}

var extensions = map[string]string{
	"console":      "txt",
	"console-lite": "txt",
	"csv":          "csv",
	"json":         "json",
	"html":         "html",
}

func register(f Formatter) { registry[f.Name()] = f }

func init() {
	register(ConsoleFormatter{})
	register(ConsoleVerboseFormatter{})
	register(CSVFormatter{})
	register(JSONFormatter{})
	register(HTMLFormatter{})
}

// GetFormatterByName returns the formatter for a name or alias, nil if unknown
func GetFormatterByName(name string) Formatter {
	if target, ok := aliases[name]; ok {
		name = target
	}
	return registry[name]
}

// AvailableFormatterNames lists registered formatter names, sorted
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases, sorted
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(aliases))
	for n := range aliases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Extension returns the file extension for a formatter name, "txt" by default
func Extension(name string) string {
	if target, ok := aliases[name]; ok {
		name = target
	}
	if ext, ok := extensions[name]; ok {
		return ext
	}
	return "txt"
}

// WriteFormatted formats q and writes it to lens_quote_<timestamp>.<ext> in the
// working directory, returning the file name.
func WriteFormatted(f Formatter, q *domain.Quote, ext string) (string, error) {
	data, err := f.Format(q)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("lens_quote_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}
