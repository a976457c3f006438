package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/Nutripedia/internal/emoji"
	"github.com/yildizm/Nutripedia/internal/food"
)

// StatsCard represents a statistics card component
type StatsCard struct {
	Title       string
	Value       string
	Description string
	Status      string // "success", "warning", "error", "info"
	Icon        string
	Width       int
	Height      int
}

// NewStatsCard creates a new stats card
func NewStatsCard(title, value, description string) *StatsCard {
	return &StatsCard{
		Title:       title,
		Value:       value,
		Description: description,
		Status:      "info",
		Width:       20,
		Height:      4,
	}
}

// SetStatus sets the status color of the card
func (s *StatsCard) SetStatus(status string) *StatsCard {
	s.Status = status
	return s
}

// SetIcon sets the icon for the card
func (s *StatsCard) SetIcon(icon string) *StatsCard {
	s.Icon = icon
	return s
}

// SetSize sets the size of the card
func (s *StatsCard) SetSize(width, height int) *StatsCard {
	s.Width = width
	s.Height = height
	return s
}

// Render renders the stats card
func (s *StatsCard) Render() string {
	infoColor := lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	bodyColor := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

	valueStyle := lipgloss.NewStyle().Foreground(statusColor(s.Status))
	titleStyle := lipgloss.NewStyle().Foreground(infoColor).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(bodyColor)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(bodyColor).Padding(0, 1)

	title := titleStyle.Render(s.Title)
	if s.Icon != "" {
		title = s.Icon + " " + title
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		valueStyle.Bold(true).Render(s.Value),
		mutedStyle.Render(s.Description),
	)

	return boxStyle.
		Width(s.Width).
		Height(s.Height).
		Render(content)
}

func statusColor(status string) lipgloss.AdaptiveColor {
	switch status {
	case "success":
		return lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"}
	case "warning":
		return lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"}
	case "error":
		return lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"}
	case "info":
		return lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	default:
		return lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	}
}

// StatsDashboard represents a collection of stats cards
type StatsDashboard struct {
	cards      []*StatsCard
	columns    int
	cardWidth  int
	cardHeight int
}

// NewStatsDashboard creates a new stats dashboard
func NewStatsDashboard(columns int) *StatsDashboard {
	if columns < 1 {
		columns = 1
	}
	return &StatsDashboard{
		columns:    columns,
		cardWidth:  20,
		cardHeight: 3,
	}
}

// AddCard adds a stats card to the dashboard
func (d *StatsDashboard) AddCard(card *StatsCard) {
	card.SetSize(d.cardWidth, d.cardHeight)
	d.cards = append(d.cards, card)
}

// Cards returns the cards in insertion order
func (d *StatsDashboard) Cards() []*StatsCard {
	return d.cards
}

// SetCardSize sets the default size for all cards
func (d *StatsDashboard) SetCardSize(width, height int) {
	d.cardWidth = width
	d.cardHeight = height
	for _, card := range d.cards {
		card.SetSize(width, height)
	}
}

// Render renders the stats dashboard
func (d *StatsDashboard) Render() string {
	if len(d.cards) == 0 {
		return ""
	}

	var rows []string
	for i := 0; i < len(d.cards); i += d.columns {
		end := i + d.columns
		if end > len(d.cards) {
			end = len(d.cards)
		}

		var rowCards []string
		for j := i; j < end; j++ {
			rowCards = append(rowCards, d.cards[j].Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowCards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// CreateSummaryStats builds the headline cards of a report
func CreateSummaryStats(report *food.Report) *StatsDashboard {
	dashboard := NewStatsDashboard(4)
	summary := report.Summary

	foodsStatus := "success"
	if report.Matched == 0 {
		foodsStatus = "warning"
	}
	dashboard.AddCard(NewStatsCard(
		"Foods",
		formatNumber(report.Matched),
		fmt.Sprintf("of %s in catalogue", formatNumber(report.Total)),
	).SetIcon(emoji.GetEmoji("food")).SetStatus(foodsStatus))

	dashboard.AddCard(NewStatsCard(
		"High-Nutrient",
		formatNumber(summary.HighNutrientCount),
		"nutrient-dense foods",
	).SetIcon(emoji.GetEmoji("high_nutrient")).SetStatus("info"))

	dashboard.AddCard(NewStatsCard(
		"Caloric Groups",
		formatNumber(len(summary.CaloricGroups)),
		"calorie ranges",
	).SetIcon(emoji.GetEmoji("calories")).SetStatus("info"))

	dashboard.AddCard(NewStatsCard(
		"Nutrients",
		formatNumber(len(summary.TopByNutrient)),
		"with top foods",
	).SetIcon(emoji.GetEmoji("nutrient")).SetStatus("info"))

	return dashboard
}

// TopFoodsBox lists the leading food of every ranked nutrient
func TopFoodsBox(summary food.Summary, width int) *SummaryBox {
	box := NewSummaryBox(emoji.GetEmoji("top")+" Top Foods", width)
	if len(summary.TopByNutrient) == 0 {
		box.AddLine("No data")
		return box
	}
	for _, top := range summary.TopByNutrient {
		if len(top.Foods) == 0 {
			box.AddKeyValue(top.Nutrient, "-")
			continue
		}
		lead := top.Foods[0]
		value := lead.Display(top.Nutrient)
		if value == "" {
			box.AddKeyValue(top.Nutrient, lead.Food)
			continue
		}
		box.AddKeyValue(top.Nutrient, fmt.Sprintf("%s (%s)", lead.Food, value))
	}
	return box
}

// CaloricGroupsBox shows each caloric range with its share of grouped foods
func CaloricGroupsBox(summary food.Summary, width int) *SummaryBox {
	box := NewSummaryBox(emoji.GetEmoji("calories")+" Caloric Groups", width)
	if len(summary.CaloricGroups) == 0 {
		box.AddLine("No data")
		return box
	}

	total := 0
	for _, g := range summary.CaloricGroups {
		total += len(g.Foods)
	}
	for _, g := range summary.CaloricGroups {
		share := 0.0
		if total > 0 {
			share = float64(len(g.Foods)) / float64(total)
		}
		box.AddKeyValue(g.Range, NewShareBar(10, share).Render())
	}
	return box
}

// formatNumber formats large numbers with commas
func formatNumber(n int) string {
	str := strconv.Itoa(n)
	if n < 0 || len(str) <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// SummaryBox creates a summary information box
type SummaryBox struct {
	Title   string
	Content []string
	Width   int
}

// NewSummaryBox creates a new summary box
func NewSummaryBox(title string, width int) *SummaryBox {
	return &SummaryBox{
		Title: title,
		Width: width,
	}
}

// AddLine adds a line to the summary
func (s *SummaryBox) AddLine(line string) {
	s.Content = append(s.Content, line)
}

// AddKeyValue adds a key-value pair to the summary
func (s *SummaryBox) AddKeyValue(key, value string) {
	s.Content = append(s.Content, fmt.Sprintf("%-15s: %s", key, value))
}

// Render renders the summary box
func (s *SummaryBox) Render() string {
	headerColor := lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	bodyColor := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

	headerStyle := lipgloss.NewStyle().Foreground(headerColor).Bold(true)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(bodyColor).Padding(0, 1)
	bodyStyle := lipgloss.NewStyle().Foreground(bodyColor)

	content := make([]string, 0, len(s.Content)+2)
	content = append(content, headerStyle.Render(s.Title), "")
	for _, line := range s.Content {
		content = append(content, bodyStyle.Render(line))
	}

	joined := lipgloss.JoinVertical(lipgloss.Left, content...)
	if s.Width <= 0 {
		return boxStyle.Render(joined)
	}
	return boxStyle.Width(s.Width).Render(joined)
}
