package formatter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/yildizm/Nutripedia/internal/food"
)

// Sheet names of the workbook
const (
	foodsSheet   = "Foods"
	topSheet     = "Top Foods"
	groupsSheet  = "Caloric Groups"
	highSheet    = "High Nutrient"
	statsSheet   = "Statistics"
	defaultSheet = "Sheet1"
)

const (
	nameColWidth  = 40
	valueColWidth = 14
)

// xlsxFormatter writes the report as an Excel workbook
type xlsxFormatter struct {
	sections Sections
}

// NewXLSX creates a new Excel formatter
func NewXLSX(sections Sections) Formatter {
	return &xlsxFormatter{sections: sections}
}

func (f *xlsxFormatter) Format(report *food.Report) ([]byte, error) {
	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	headerStyle, err := wb.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	w := &sheetWriter{wb: wb, headerStyle: headerStyle}
	first := true
	sheet := func(name string) string {
		if first {
			first = false
			w.rename(defaultSheet, name)
		} else {
			w.add(name)
		}
		return name
	}

	if f.sections.Table {
		writeFoodsSheet(w, sheet(foodsSheet), report)
	}
	if f.sections.Summary {
		writeTopSheet(w, sheet(topSheet), report.Summary)
		writeGroupsSheet(w, sheet(groupsSheet), report.Summary.CaloricGroups)
		writeHighSheet(w, sheet(highSheet), report.Summary.HighNutrientFoods)
		if len(report.Summary.Stats) > 0 {
			writeStatsSheet(w, sheet(statsSheet), report.Summary.Stats)
		}
	}
	if w.err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", w.err)
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter keeps the first error so sheet builders stay linear
type sheetWriter struct {
	wb          *excelize.File
	headerStyle int
	err         error
}

func (w *sheetWriter) rename(from, to string) {
	if w.err == nil {
		w.err = w.wb.SetSheetName(from, to)
	}
}

func (w *sheetWriter) add(name string) {
	if w.err == nil {
		_, w.err = w.wb.NewSheet(name)
	}
}

func (w *sheetWriter) cell(sheet string, col, row int, value interface{}) {
	if w.err != nil {
		return
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.wb.SetCellValue(sheet, name, value)
}

func (w *sheetWriter) header(sheet string, headers ...string) {
	for i, h := range headers {
		w.cell(sheet, i+1, 1, h)
	}
	if w.err == nil {
		w.err = w.wb.SetRowStyle(sheet, 1, 1, w.headerStyle)
	}
}

func (w *sheetWriter) widths(sheet string, widths ...float64) {
	for i, width := range widths {
		if w.err != nil {
			return
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			w.err = err
			return
		}
		w.err = w.wb.SetColWidth(sheet, col, col, width)
	}
}

func writeFoodsSheet(w *sheetWriter, sheet string, report *food.Report) {
	headers := make([]string, len(report.Columns))
	widths := make([]float64, len(report.Columns))
	for i, c := range report.Columns {
		headers[i] = c.Label
		widths[i] = valueColWidth
		if !c.Sortable() {
			widths[i] = nameColWidth
		}
	}
	w.header(sheet, headers...)

	for i, rec := range report.Rows {
		row := i + 2
		for j, c := range report.Columns {
			w.cell(sheet, j+1, row, cellValue(rec, c.Key))
		}
	}
	w.widths(sheet, widths...)
}

func writeTopSheet(w *sheetWriter, sheet string, summary food.Summary) {
	w.header(sheet, "Nutrient", "Rank", "Food", "Value")
	row := 2
	for _, top := range summary.TopByNutrient {
		for i, rec := range top.Foods {
			w.cell(sheet, 1, row, top.Nutrient)
			w.cell(sheet, 2, row, i+1)
			w.cell(sheet, 3, row, rec.Food)
			w.cell(sheet, 4, row, cellValue(rec, top.Nutrient))
			row++
		}
	}
	w.widths(sheet, 20, 8, nameColWidth, valueColWidth)
}

func writeGroupsSheet(w *sheetWriter, sheet string, groups []food.CaloricGroup) {
	w.header(sheet, "Caloric Range", "Food")
	row := 2
	for _, g := range groups {
		for _, name := range g.Foods {
			w.cell(sheet, 1, row, g.Range)
			w.cell(sheet, 2, row, name)
			row++
		}
	}
	w.widths(sheet, 24, nameColWidth)
}

func writeHighSheet(w *sheetWriter, sheet string, records []food.Record) {
	w.header(sheet, "Food")
	for i, rec := range records {
		w.cell(sheet, 1, i+2, rec.Food)
	}
	w.widths(sheet, nameColWidth)
}

func writeStatsSheet(w *sheetWriter, sheet string, stats []food.ColumnStats) {
	w.header(sheet, "Column", "Statistic", "Value")
	row := 2
	for _, cs := range stats {
		for _, s := range cs.Stats {
			w.cell(sheet, 1, row, cs.Column)
			w.cell(sheet, 2, row, s.Name)
			w.cell(sheet, 3, row, s.Value)
			row++
		}
	}
	w.widths(sheet, 24, 12, valueColWidth)
}

// cellValue keeps JSON numbers numeric so spreadsheets can sort them
func cellValue(rec food.Record, key string) interface{} {
	v, ok := rec.Value(key)
	if !ok || v.IsNull() {
		return ""
	}
	if n, ok := v.Numeric(); ok {
		return n
	}
	return v.String()
}
