package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/Nutripedia/internal/food"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *food.Report) ([]byte, error)
}

// Sections selects which parts of a report are rendered
type Sections struct {
	Table   bool
	Summary bool
}

var (
	// All renders the table and the summary panels
	All = Sections{Table: true, Summary: true}
	// TableOnly renders only the catalogue table
	TableOnly = Sections{Table: true}
	// SummaryOnly renders only the summary panels
	SummaryOnly = Sections{Summary: true}
)

// Formats lists the supported output formats
var Formats = []string{"text", "json", "csv", "markdown", "xlsx"}

// New returns the formatter for a named output format
func New(format string, color bool, sections Sections) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "text", "terminal":
		return NewTerminal(color, sections), nil
	case "json":
		return NewJSON(sections), nil
	case "csv":
		return NewCSV(sections), nil
	case "markdown", "md":
		return NewMarkdown(sections), nil
	case "xlsx", "excel":
		return NewXLSX(sections), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use %s)", format, strings.Join(Formats, ", "))
	}
}

// ContentType is the MIME type of a format's output
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "json":
		return "application/json; charset=utf-8"
	case "csv":
		return "text/csv; charset=utf-8"
	case "markdown", "md":
		return "text/markdown; charset=utf-8"
	case "xlsx", "excel":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension is the file extension of a format's output
func Extension(format string) string {
	switch strings.ToLower(format) {
	case "json":
		return ".json"
	case "csv":
		return ".csv"
	case "markdown", "md":
		return ".md"
	case "xlsx", "excel":
		return ".xlsx"
	default:
		return ".txt"
	}
}
