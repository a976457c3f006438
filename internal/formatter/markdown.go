package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/Nutripedia/internal/food"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	sections Sections
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown(sections Sections) Formatter {
	return &markdownFormatter{sections: sections}
}

func (f *markdownFormatter) Format(report *food.Report) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Nutripedia Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))

	f.writeTableOfContents(&b, report)

	if f.sections.Table {
		f.writeFoods(&b, report)
	}

	if f.sections.Summary {
		f.writeTopFoods(&b, report.Summary)
		f.writeCaloricGroups(&b, report.Summary.CaloricGroups)
		f.writeHighNutrient(&b, report.Summary)
		if len(report.Summary.Stats) > 0 {
			f.writeStats(&b, report.Summary.Stats)
		}
		if len(report.Summary.Correlations) > 0 {
			f.writeCorrelations(&b, report.Summary.Correlations)
		}
	}

	b.WriteString("---\n")
	b.WriteString("*Report generated by Nutripedia*\n")

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeTableOfContents(b *strings.Builder, report *food.Report) {
	b.WriteString("## Table of Contents\n")
	if f.sections.Table {
		b.WriteString("- [Foods](#foods)\n")
	}
	if f.sections.Summary {
		b.WriteString("- [Top Foods](#top-foods)\n")
		b.WriteString("- [Caloric Groups](#caloric-groups)\n")
		b.WriteString("- [High-Nutrient Foods](#high-nutrient-foods)\n")
		if len(report.Summary.Stats) > 0 {
			b.WriteString("- [Statistics](#statistics)\n")
		}
		if len(report.Summary.Correlations) > 0 {
			b.WriteString("- [Correlations](#correlations)\n")
		}
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeFoods(b *strings.Builder, report *food.Report) {
	b.WriteString("## Foods\n\n")
	fmt.Fprintf(b, "%s\n\n", report.Description())

	if len(report.Rows) == 0 {
		b.WriteString("_No foods to show._\n\n")
		return
	}

	headers := report.Headers()
	writeMarkdownRow(b, headers)

	aligns := make([]string, len(report.Columns))
	for i, c := range report.Columns {
		if c.Sortable() {
			aligns[i] = "---:"
		} else {
			aligns[i] = "---"
		}
	}
	b.WriteString("|" + strings.Join(aligns, "|") + "|\n")

	for _, rec := range report.Rows {
		writeMarkdownRow(b, report.Cells(rec))
	}
	if len(report.Rows) < report.Matched {
		fmt.Fprintf(b, "\n_Showing %d of %d matching foods._\n", len(report.Rows), report.Matched)
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeTopFoods(b *strings.Builder, summary food.Summary) {
	b.WriteString("## Top Foods\n\n")
	if len(summary.TopByNutrient) == 0 {
		b.WriteString("_No data._\n\n")
		return
	}
	for _, top := range summary.TopByNutrient {
		fmt.Fprintf(b, "### %s\n\n", escapeMarkdown(top.Nutrient))
		for i, rec := range top.Foods {
			fmt.Fprintf(b, "%d. %s (%s)\n", i+1, escapeMarkdown(rec.Food), topValue(rec, top.Nutrient))
		}
		b.WriteString("\n")
	}
}

func (f *markdownFormatter) writeCaloricGroups(b *strings.Builder, groups []food.CaloricGroup) {
	b.WriteString("## Caloric Groups\n\n")
	if len(groups) == 0 {
		b.WriteString("_No data._\n\n")
		return
	}

	b.WriteString("| Range | Foods | Examples |\n")
	b.WriteString("|-------|------:|----------|\n")
	for _, g := range groups {
		fmt.Fprintf(b, "| %s | %d | %s |\n", escapeMarkdown(g.Range), len(g.Foods), escapeMarkdown(previewList(g.Foods, maxGroupPreview)))
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeHighNutrient(b *strings.Builder, summary food.Summary) {
	b.WriteString("## High-Nutrient Foods\n\n")
	fmt.Fprintf(b, "**Count**: %s\n\n", formatNumber(summary.HighNutrientCount))
	for _, rec := range summary.HighNutrientFoods {
		fmt.Fprintf(b, "- %s\n", escapeMarkdown(rec.Food))
	}
	if summary.HighNutrientCount > 0 {
		b.WriteString("\n")
	}
}

func (f *markdownFormatter) writeStats(b *strings.Builder, stats []food.ColumnStats) {
	b.WriteString("## Statistics\n\n")
	b.WriteString("| Column | Statistic | Value |\n")
	b.WriteString("|--------|-----------|------:|\n")
	for _, cs := range stats {
		for _, s := range cs.Stats {
			fmt.Fprintf(b, "| %s | %s | %s |\n", escapeMarkdown(cs.Column), escapeMarkdown(s.Name), formatStat(s.Value))
		}
	}
	b.WriteString("\n")
}

// writeCorrelations writes the correlation matrix as a square table
func (f *markdownFormatter) writeCorrelations(b *strings.Builder, rows []food.ColumnStats) {
	b.WriteString("## Correlations\n\n")
	header := []string{""}
	for _, r := range rows {
		header = append(header, r.Column)
	}
	writeMarkdownRow(b, header)
	b.WriteString("|" + strings.Repeat("---|", len(header)) + "\n")

	for _, r := range rows {
		values := make(map[string]float64, len(r.Stats))
		for _, s := range r.Stats {
			values[s.Name] = s.Value
		}
		cells := []string{r.Column}
		for _, other := range rows {
			cell := "-"
			if v, ok := values[other.Column]; ok {
				cell = fmt.Sprintf("%.2f", v)
			}
			cells = append(cells, cell)
		}
		writeMarkdownRow(b, cells)
	}
	b.WriteString("\n")
}

func writeMarkdownRow(b *strings.Builder, cells []string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = escapeMarkdown(c)
	}
	b.WriteString("| " + strings.Join(escaped, " | ") + " |\n")
}

// escapeMarkdown keeps cell text from breaking table syntax
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
