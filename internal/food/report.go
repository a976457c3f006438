package food

import (
	"fmt"
	"time"
)

// Column is a table column: the dataset key and its header label
type Column struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// Sortable reports whether the column can be used as a sort key.
// The name column never is; numeric sorting of names is meaningless.
func (c Column) Sortable() bool {
	return c.Key != NameKey
}

// DefaultColumns are the columns of the catalogue table
func DefaultColumns() []Column {
	return []Column{
		{Key: NameKey, Label: "Food"},
		{Key: "Caloric Value", Label: "Calories"},
		{Key: "Fat", Label: "Fat (g)"},
		{Key: "Protein", Label: "Protein (g)"},
		{Key: "Carbohydrates", Label: "Carbs (g)"},
		{Key: "Nutrition Density", Label: "Density"},
	}
}

// SortableColumns returns the columns that accept a sort toggle
func SortableColumns(columns []Column) []Column {
	out := make([]Column, 0, len(columns))
	for _, c := range columns {
		if c.Sortable() {
			out = append(out, c)
		}
	}
	return out
}

// FindColumn resolves a key or a label (case-sensitive key first, then label)
func FindColumn(columns []Column, name string) (Column, bool) {
	for _, c := range columns {
		if c.Key == name {
			return c, true
		}
	}
	for _, c := range columns {
		if c.Label == name {
			return c, true
		}
	}
	return Column{}, false
}

// HeaderLabel is the column label with the active sort indicator
func HeaderLabel(c Column, state ViewState) string {
	return c.Label + SortIndicator(state, c.Key)
}

// Dataset is a successfully joined load of both documents
type Dataset struct {
	Records  []Record
	Analyses *Analyses
}

// Report is everything a presentation needs for one render
type Report struct {
	Columns     []Column  `json:"columns"`
	State       ViewState `json:"state"`
	Rows        []Record  `json:"rows"`
	Total       int       `json:"total"`
	Matched     int       `json:"matched"`
	Summary     Summary   `json:"summary"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewReport computes the view and summary for a dataset and view state
func NewReport(ds *Dataset, state ViewState, columns []Column) *Report {
	if len(columns) == 0 {
		columns = DefaultColumns()
	}
	report := &Report{
		Columns:     columns,
		State:       state,
		Rows:        []Record{},
		Summary:     ProjectSummary(nil),
		GeneratedAt: time.Now(),
	}
	if ds == nil {
		return report
	}
	report.Rows = BuildView(ds.Records, state)
	report.Total = len(ds.Records)
	report.Matched = len(report.Rows)
	report.Summary = ProjectSummary(ds.Analyses)
	return report
}

// Limit caps the displayed rows; Matched keeps the uncapped count.
// n <= 0 means no cap.
func (r *Report) Limit(n int) *Report {
	if n <= 0 || n >= len(r.Rows) {
		return r
	}
	capped := *r
	capped.Rows = r.Rows[:n]
	return &capped
}

// Headers returns the header labels including the sort indicator
func (r *Report) Headers() []string {
	headers := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		headers[i] = HeaderLabel(c, r.State)
	}
	return headers
}

// Cells returns the display cells of a row in column order
func (r *Report) Cells(rec Record) []string {
	cells := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		cells[i] = rec.Display(c.Key)
	}
	return cells
}

// Description is a one-line account of the current view
func (r *Report) Description() string {
	desc := fmt.Sprintf("%d of %d foods", r.Matched, r.Total)
	if r.State.Filter != "" {
		desc += fmt.Sprintf(" matching %q", r.State.Filter)
	}
	if r.State.Sorted() {
		desc += fmt.Sprintf(", sorted by %s %s", r.State.SortKey, r.State.Direction)
	}
	return desc
}

// ResolveSortKey maps a user-supplied column key or label to the key of a
// sortable column. An empty name means no sort.
func ResolveSortKey(columns []Column, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	c, ok := FindColumn(columns, name)
	if !ok {
		return "", fmt.Errorf("unknown column: %q", name)
	}
	if !c.Sortable() {
		return "", fmt.Errorf("column %q cannot be sorted", c.Label)
	}
	return c.Key, nil
}
