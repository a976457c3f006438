package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SpinnerFrames are the animation frames of the loading spinner
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner represents a spinning progress indicator
type Spinner struct {
	Frame int
	Label string
	Style lipgloss.Style
}

// NewSpinner creates a new spinner
func NewSpinner(label string) *Spinner {
	return &Spinner{
		Label: label,
		Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
	}
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(SpinnerFrames)
}

// Render renders the spinner
func (s *Spinner) Render() string {
	char := s.Style.Render(SpinnerFrames[s.Frame%len(SpinnerFrames)])
	if s.Label != "" {
		return fmt.Sprintf("%s %s", char, s.Label)
	}
	return char
}

// ShareBar renders a fraction in [0, 1] as a filled bar
type ShareBar struct {
	Width int
	Share float64
}

// NewShareBar creates a bar of the given width
func NewShareBar(width int, share float64) *ShareBar {
	return &ShareBar{Width: width, Share: share}
}

// Render renders the bar followed by the percentage
func (b *ShareBar) Render() string {
	filledStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

	share := b.Share
	if math.IsNaN(share) || share < 0 {
		share = 0
	}
	if share > 1 {
		share = 1
	}

	filled := int(math.Round(float64(b.Width) * share))
	bar := filledStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", b.Width-filled))

	return fmt.Sprintf("%s %5.1f%%", bar, share*100)
}
