package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/yildizm/Nutripedia/internal/food"
)

// csvFormatter writes the table rows as CSV. With only the summary
// selected it writes the summary lists in long form instead.
type csvFormatter struct {
	sections Sections
}

// NewCSV creates a new CSV formatter
func NewCSV(sections Sections) Formatter {
	return &csvFormatter{sections: sections}
}

func (f *csvFormatter) Format(report *food.Report) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	var err error
	if f.sections.Table {
		err = writeRowsCSV(writer, report)
	} else {
		err = writeSummaryCSV(writer, report.Summary)
	}
	if err != nil {
		return nil, err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}

func writeRowsCSV(writer *csv.Writer, report *food.Report) error {
	headers := make([]string, len(report.Columns))
	for i, c := range report.Columns {
		headers[i] = c.Label
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range report.Rows {
		if err := writer.Write(report.Cells(rec)); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	return nil
}

func writeSummaryCSV(writer *csv.Writer, summary food.Summary) error {
	if err := writer.Write([]string{"Section", "Group", "Rank", "Food", "Value"}); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	var records [][]string
	for _, top := range summary.TopByNutrient {
		for i, rec := range top.Foods {
			records = append(records, []string{"top_foods", top.Nutrient, strconv.Itoa(i + 1), rec.Food, rec.Display(top.Nutrient)})
		}
	}
	for _, g := range summary.CaloricGroups {
		for i, name := range g.Foods {
			records = append(records, []string{"caloric_groups", g.Range, strconv.Itoa(i + 1), name, ""})
		}
	}
	for i, rec := range summary.HighNutrientFoods {
		records = append(records, []string{"high_nutrient_foods", "", strconv.Itoa(i + 1), rec.Food, ""})
	}
	for _, cs := range summary.Stats {
		for _, s := range cs.Stats {
			records = append(records, []string{"summary_stats", cs.Column, "", s.Name, formatStat(s.Value)})
		}
	}

	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV record: %w", err)
	}
	return nil
}
