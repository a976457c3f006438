package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yildizm/Nutripedia/internal/emoji"
	"github.com/yildizm/Nutripedia/internal/food"
	"github.com/yildizm/go-termfmt"
)

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return addCommas(fmt.Sprintf("%d", n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// formatStat renders a descriptive statistic compactly
func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// termOptions builds go-termfmt options honoring the global emoji switch
func termOptions(color bool) *termfmt.TerminalOptions {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return opts
}

// topValue is the value a top-foods entry is ranked by
func topValue(rec food.Record, nutrient string) string {
	if v := rec.Display(nutrient); v != "" {
		return v
	}
	return "-"
}

// caloricShares returns each group's share of all grouped foods
func caloricShares(groups []food.CaloricGroup) []float64 {
	total := 0
	for _, g := range groups {
		total += len(g.Foods)
	}
	shares := make([]float64, len(groups))
	if total == 0 {
		return shares
	}
	for i, g := range groups {
		shares[i] = float64(len(g.Foods)) / float64(total)
	}
	return shares
}

// previewList joins up to max names, noting how many were left out
func previewList(names []string, max int) string {
	if len(names) == 0 {
		return "none"
	}
	if max <= 0 || len(names) <= max {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s, +%d more", strings.Join(names[:max], ", "), len(names)-max)
}
