package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yildizm/Nutripedia/internal/emoji"
	"github.com/yildizm/Nutripedia/internal/food"
	"github.com/yildizm/go-termfmt"
)

// maxGroupPreview caps the names listed per caloric group
const maxGroupPreview = 5

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts     *termfmt.TerminalOptions
	color    bool
	sections Sections
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool, sections Sections) Formatter {
	return &terminalFormatter{opts: termOptions(color), color: color, sections: sections}
}

func (f *terminalFormatter) Format(report *food.Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)

	if f.sections.Table {
		f.writeTable(&b, report)
	}

	if f.sections.Summary {
		f.writeTopFoods(&b, report.Summary)
		f.writeCaloricGroups(&b, report.Summary.CaloricGroups)
		f.writeHighNutrient(&b, report.Summary)
		f.writeStats(&b, report.Summary.Stats)
	}

	return []byte(b.String()), nil
}

// writeHeader writes the box-drawn title
func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "Nutripedia"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeTable writes the filtered and sorted catalogue
func (f *terminalFormatter) writeTable(b *strings.Builder, report *food.Report) {
	fmt.Fprintf(b, "%s %s\n", emoji.GetEmoji("food"), report.Description())
	if len(report.Rows) < report.Matched {
		fmt.Fprintf(b, "(showing first %s)\n", formatNumber(len(report.Rows)))
	}

	if len(report.Rows) == 0 {
		b.WriteString("No foods to show.\n\n")
		return
	}

	rows := make([][]string, 0, len(report.Rows))
	for _, rec := range report.Rows {
		rows = append(rows, report.Cells(rec))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(report.Headers()...).
		Rows(rows...).
		StyleFunc(f.cellStyle(report.Columns))

	b.WriteString(t.String() + "\n\n")
}

// cellStyle pads cells and right-aligns the numeric columns
func (f *terminalFormatter) cellStyle(columns []food.Column) table.StyleFunc {
	base := lipgloss.NewStyle().Padding(0, 1)
	header := base
	if f.color {
		header = header.Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	}
	return func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return header
		}
		if col < len(columns) && columns[col].Sortable() {
			return base.Align(lipgloss.Right)
		}
		return base
	}
}

// writeTopFoods writes the top foods per nutrient as a tree
func (f *terminalFormatter) writeTopFoods(b *strings.Builder, summary food.Summary) {
	fmt.Fprintf(b, "%s Top Foods\n", emoji.GetEmoji("top"))
	if len(summary.TopByNutrient) == 0 {
		b.WriteString("└─ No data\n\n")
		return
	}

	items := make([]termfmt.TreeItem, 0, len(summary.TopByNutrient))
	for i, top := range summary.TopByNutrient {
		children := make([]termfmt.TreeItem, 0, len(top.Foods))
		for j, rec := range top.Foods {
			children = append(children, termfmt.TreeItem{
				Label: fmt.Sprintf("%d. %s", j+1, rec.Food),
				Value: topValue(rec, top.Nutrient),
				Last:  j == len(top.Foods)-1,
			})
		}
		items = append(items, termfmt.TreeItem{
			Label:    top.Nutrient,
			Value:    fmt.Sprintf("%d foods", len(top.Foods)),
			Children: children,
			Last:     i == len(summary.TopByNutrient)-1,
		})
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

// writeCaloricGroups writes each caloric range with its share of foods
func (f *terminalFormatter) writeCaloricGroups(b *strings.Builder, groups []food.CaloricGroup) {
	fmt.Fprintf(b, "%s Caloric Groups\n", emoji.GetEmoji("calories"))
	if len(groups) == 0 {
		b.WriteString("└─ No data\n\n")
		return
	}

	shares := caloricShares(groups)
	items := make([]termfmt.TreeItem, 0, len(groups))
	for i, g := range groups {
		items = append(items, termfmt.TreeItem{
			Label: fmt.Sprintf("%s %s", termfmt.CreateConfidenceBar(shares[i], f.opts), g.Range),
			Value: fmt.Sprintf("%d foods", len(g.Foods)),
			Children: []termfmt.TreeItem{
				{Label: previewList(g.Foods, maxGroupPreview), Last: true},
			},
			Last: i == len(groups)-1,
		})
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

// writeHighNutrient writes the high-nutrient count and names
func (f *terminalFormatter) writeHighNutrient(b *strings.Builder, summary food.Summary) {
	fmt.Fprintf(b, "%s High-Nutrient Foods: %s\n", emoji.GetEmoji("high_nutrient"), formatNumber(summary.HighNutrientCount))
	if summary.HighNutrientCount > 0 {
		names := make([]string, 0, len(summary.HighNutrientFoods))
		for _, rec := range summary.HighNutrientFoods {
			names = append(names, rec.Food)
		}
		b.WriteString("└─ " + previewList(names, maxGroupPreview) + "\n")
	}
	b.WriteString("\n")
}

// writeStats writes the descriptive statistics per column
func (f *terminalFormatter) writeStats(b *strings.Builder, stats []food.ColumnStats) {
	if len(stats) == 0 {
		return
	}

	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Statistics\n")

	items := make([]termfmt.TreeItem, 0, len(stats))
	for i, cs := range stats {
		children := make([]termfmt.TreeItem, 0, len(cs.Stats))
		for j, s := range cs.Stats {
			children = append(children, termfmt.TreeItem{
				Label: s.Name,
				Value: formatStat(s.Value),
				Last:  j == len(cs.Stats)-1,
			})
		}
		items = append(items, termfmt.TreeItem{
			Label:    cs.Column,
			Children: children,
			Last:     i == len(stats)-1,
		})
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n")
}
