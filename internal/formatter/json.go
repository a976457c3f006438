package formatter

import (
	"encoding/json"
	"time"

	"github.com/yildizm/Nutripedia/internal/food"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct {
	sections Sections
}

// NewJSON creates a new JSON formatter
func NewJSON(sections Sections) Formatter {
	return &jsonFormatter{sections: sections}
}

func (f *jsonFormatter) Format(report *food.Report) ([]byte, error) {
	output := &JSONOutput{
		GeneratedAt: report.GeneratedAt,
		View:        createViewOutput(report),
	}
	if f.sections.Table {
		output.Table = &TableOutput{Columns: report.Columns, Rows: report.Rows}
	}
	if f.sections.Summary {
		summary := report.Summary
		output.Summary = &summary
	}

	return json.MarshalIndent(output, "", "  ")
}

// JSONOutput is the document written by the JSON formatter
type JSONOutput struct {
	GeneratedAt time.Time     `json:"generated_at"`
	View        *ViewOutput   `json:"view"`
	Table       *TableOutput  `json:"table,omitempty"`
	Summary     *food.Summary `json:"summary,omitempty"`
}

// TableOutput holds the displayed rows and the columns they are shown with
type TableOutput struct {
	Columns []food.Column `json:"columns"`
	Rows    []food.Record `json:"rows"`
}

// ViewOutput describes the filter and sort that produced the rows
type ViewOutput struct {
	Filter    string `json:"filter"`
	SortKey   string `json:"sort_key,omitempty"`
	Direction string `json:"direction,omitempty"`
	Total     int    `json:"total"`
	Matched   int    `json:"matched"`
	Shown     int    `json:"shown"`
}

func createViewOutput(report *food.Report) *ViewOutput {
	view := &ViewOutput{
		Filter:  report.State.Filter,
		SortKey: report.State.SortKey,
		Total:   report.Total,
		Matched: report.Matched,
		Shown:   len(report.Rows),
	}
	if report.State.Sorted() {
		view.Direction = report.State.Direction.String()
	}
	return view
}
