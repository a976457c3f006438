package components

import (
	"strings"
	"testing"

	"github.com/yildizm/Nutripedia/internal/food"
)

func TestSpinnerCyclesFrames(t *testing.T) {
	s := NewSpinner("Loading")
	first := s.Render()
	for i := 0; i < len(SpinnerFrames); i++ {
		s.Tick()
	}
	if s.Render() != first {
		t.Error("Expected spinner to wrap around after a full cycle")
	}
	if !strings.Contains(first, "Loading") {
		t.Errorf("Expected label in %q", first)
	}
}

func TestShareBar(t *testing.T) {
	tests := []struct {
		share float64
		want  string
	}{
		{share: 0, want: "0.0%"},
		{share: 0.5, want: "50.0%"},
		{share: 2, want: "100.0%"},
		{share: -1, want: "0.0%"},
	}
	for _, tt := range tests {
		if got := NewShareBar(10, tt.share).Render(); !strings.Contains(got, tt.want) {
			t.Errorf("Share %v: expected %q in %q", tt.share, tt.want, got)
		}
	}
}

func TestCreateSummaryStats(t *testing.T) {
	report := &food.Report{
		Total:   1200,
		Matched: 1050,
		Summary: food.Summary{
			HighNutrientCount: 2,
			CaloricGroups:     []food.CaloricGroup{{Range: "Low", Foods: []string{"kale"}}},
		},
	}

	cards := CreateSummaryStats(report).Cards()
	if len(cards) != 4 {
		t.Fatalf("Expected 4 cards, got %d", len(cards))
	}
	if cards[0].Value != "1,050" || !strings.Contains(cards[0].Description, "1,200") {
		t.Errorf("Unexpected foods card: %+v", cards[0])
	}
	if cards[1].Value != "2" || cards[2].Value != "1" || cards[3].Value != "0" {
		t.Errorf("Unexpected card values: %s %s %s", cards[1].Value, cards[2].Value, cards[3].Value)
	}

	report.Matched = 0
	if status := CreateSummaryStats(report).Cards()[0].Status; status != "warning" {
		t.Errorf("Expected warning status with no matches, got %s", status)
	}
}

func TestSummaryBoxesWithoutData(t *testing.T) {
	for _, box := range []*SummaryBox{
		TopFoodsBox(food.Summary{}, 40),
		CaloricGroupsBox(food.Summary{}, 40),
	} {
		if len(box.Content) != 1 || box.Content[0] != "No data" {
			t.Errorf("Expected a single No data line in %s, got %v", box.Title, box.Content)
		}
	}
}

func TestTopFoodsBox(t *testing.T) {
	summary := food.Summary{TopByNutrient: []food.NutrientTop{
		{Nutrient: "Fat", Foods: []food.Record{food.NewRecord("almonds", map[string]food.Value{"Fat": food.NumberValue(49.9)})}},
		{Nutrient: "Protein"},
	}}

	box := TopFoodsBox(summary, 40)
	if len(box.Content) != 2 {
		t.Fatalf("Expected 2 lines, got %v", box.Content)
	}
	if !strings.Contains(box.Content[0], "almonds (49.9)") {
		t.Errorf("Unexpected first line %q", box.Content[0])
	}
	if !strings.HasSuffix(box.Content[1], ": -") {
		t.Errorf("Expected placeholder for empty nutrient, got %q", box.Content[1])
	}
}
