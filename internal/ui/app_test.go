package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/yildizm/Nutripedia/internal/food"
	"github.com/yildizm/Nutripedia/internal/loader"
)

type fakeSource struct {
	ds    *food.Dataset
	err   error
	calls int
}

func (f *fakeSource) Load(_ context.Context) (*food.Dataset, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.ds, nil
}

func testDataset(t *testing.T) *food.Dataset {
	t.Helper()
	records, err := food.ParseRecords([]byte(`[
		{"food": "cream cheese", "Caloric Value": 51, "Fat": 5},
		{"food": "kale", "Caloric Value": 33, "Fat": 0.5},
		{"food": "almonds", "Caloric Value": 579, "Fat": 49.9}
	]`))
	if err != nil {
		t.Fatal(err)
	}
	analyses, err := food.ParseAnalyses([]byte(`{
		"top_foods": {"Fat": [{"food": "almonds", "Fat": 49.9}]},
		"high_nutrient_foods": [{"food": "kale"}],
		"caloric_groups": [{"Caloric_Range": "Low (<100)", "food": ["kale", "cream cheese"]}]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	return &food.Dataset{Records: records, Analyses: analyses}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loadModel runs the initial load synchronously
func loadModel(t *testing.T, src DataSource, opts Options) *BrowseModel {
	t.Helper()
	m := NewBrowseModel(src, opts)
	m.Init()
	msg := CreateLoadCommand(context.Background(), src, m.gen)()
	m.Update(msg)
	return m
}

func rowNames(m *BrowseModel) []string {
	names := make([]string, 0, len(m.Report().Rows))
	for _, r := range m.Report().Rows {
		names = append(names, r.Food)
	}
	return names
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestBrowseStartsLoading(t *testing.T) {
	m := NewBrowseModel(&fakeSource{}, Options{})
	if m.CurrentView() != ViewLoading {
		t.Errorf("Expected loading view, got %s", m.CurrentView())
	}
	if m.Init() == nil {
		t.Error("Expected Init to start a load")
	}
	if !strings.Contains(m.View(), "Loading food data") {
		t.Errorf("Expected spinner label in view, got:\n%s", m.View())
	}
}

func TestBrowseLoadsIntoTable(t *testing.T) {
	m := loadModel(t, &fakeSource{ds: testDataset(t)}, Options{})

	if m.CurrentView() != ViewTable {
		t.Fatalf("Expected table view, got %s", m.CurrentView())
	}
	if diff := cmp.Diff([]string{"cream cheese", "kale", "almonds"}, rowNames(m)); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
	if got := len(m.table.Rows()); got != 3 {
		t.Errorf("Expected 3 table rows, got %d", got)
	}
	if !strings.Contains(m.View(), "3 of 3 foods") {
		t.Errorf("Expected status line in view, got:\n%s", m.View())
	}
}

func TestBrowseLoadFailureShowsOnlyUserMessage(t *testing.T) {
	src := &fakeSource{err: &loader.LoadError{
		Resource: loader.ResourceAnalyses,
		Source:   "http://example.test/summary_analyses.json",
		Err:      errors.New("unexpected status 500"),
	}}
	m := loadModel(t, src, Options{})

	if m.CurrentView() != ViewError {
		t.Fatalf("Expected error view, got %s", m.CurrentView())
	}
	if m.Report() != nil {
		t.Error("Expected no report after a failed load")
	}

	view := m.View()
	if !strings.Contains(view, loader.UserMessage) {
		t.Errorf("Expected user message, got:\n%s", view)
	}
	for _, leaked := range []string{"500", "summary_analyses", "analyses"} {
		if strings.Contains(view, leaked) {
			t.Errorf("Error view leaks %q:\n%s", leaked, view)
		}
	}

	// Sorting keys do nothing without data
	m.Update(keyRunes("1"))
	if m.State().Sorted() {
		t.Error("Expected sort keys to be ignored in the error view")
	}
}

func TestBrowseRetryAfterFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	m := loadModel(t, src, Options{})

	src.err = nil
	src.ds = testDataset(t)

	_, cmd := m.Update(keyRunes("r"))
	if cmd == nil {
		t.Fatal("Expected retry to issue a load")
	}
	if m.CurrentView() != ViewLoading {
		t.Errorf("Expected loading view during retry, got %s", m.CurrentView())
	}

	m.Update(CreateLoadCommand(context.Background(), src, m.gen)())
	if m.CurrentView() != ViewTable {
		t.Errorf("Expected table view after retry, got %s", m.CurrentView())
	}
	if src.calls != 2 {
		t.Errorf("Expected 2 loads, got %d", src.calls)
	}
}

func TestBrowseSortKeys(t *testing.T) {
	m := loadModel(t, &fakeSource{ds: testDataset(t)}, Options{})

	// "1" is the first sortable column, Calories
	m.Update(keyRunes("1"))
	want := food.ViewState{SortKey: "Caloric Value", Direction: food.Descending}
	if diff := cmp.Diff(want, m.State()); diff != "" {
		t.Errorf("State mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"almonds", "cream cheese", "kale"}, rowNames(m)); diff != "" {
		t.Errorf("Descending rows mismatch (-want +got):\n%s", diff)
	}
	if title := m.table.Columns()[1].Title; title != "Calories ↑" {
		t.Errorf("Expected descending indicator, got %q", title)
	}

	m.Update(keyRunes("1"))
	if m.State().Direction != food.Ascending {
		t.Errorf("Expected second press to flip to ascending, got %s", m.State().Direction)
	}
	if diff := cmp.Diff([]string{"kale", "cream cheese", "almonds"}, rowNames(m)); diff != "" {
		t.Errorf("Ascending rows mismatch (-want +got):\n%s", diff)
	}
	if title := m.table.Columns()[1].Title; title != "Calories ↓" {
		t.Errorf("Expected ascending indicator, got %q", title)
	}

	// Another column starts descending
	m.Update(keyRunes("2"))
	if m.State().SortKey != "Fat" || m.State().Direction != food.Descending {
		t.Errorf("Expected Fat descending, got %+v", m.State())
	}

	m.Update(keyRunes("0"))
	if m.State().Sorted() {
		t.Errorf("Expected sort to be cleared, got %+v", m.State())
	}
	if diff := cmp.Diff([]string{"cream cheese", "kale", "almonds"}, rowNames(m)); diff != "" {
		t.Errorf("Unsorted rows mismatch (-want +got):\n%s", diff)
	}

	// Out of range keys are ignored
	m.Update(keyRunes("9"))
	if m.State().Sorted() {
		t.Error("Expected key beyond the sortable columns to be ignored")
	}
}

func TestBrowseSearchFiltersLive(t *testing.T) {
	m := loadModel(t, &fakeSource{ds: testDataset(t)}, Options{})
	m.Update(keyRunes("1"))

	m.Update(keyRunes("/"))
	if !m.searching {
		t.Fatal("Expected / to focus the search box")
	}

	m.Update(keyRunes("E"))
	if diff := cmp.Diff([]string{"cream cheese", "kale"}, rowNames(m)); diff != "" {
		t.Errorf("Rows after one key mismatch (-want +got):\n%s", diff)
	}
	m.Update(keyRunes("a"))
	if diff := cmp.Diff([]string{"cream cheese"}, rowNames(m)); diff != "" {
		t.Errorf("Rows after two keys mismatch (-want +got):\n%s", diff)
	}

	// Sort survives filtering
	if m.State().SortKey != "Caloric Value" {
		t.Errorf("Expected sort to be kept while filtering, got %+v", m.State())
	}

	// Keys that are commands elsewhere are text while searching
	_, cmd := m.Update(keyRunes("q"))
	if isQuit(cmd) {
		t.Error("Expected q to be typed, not quit")
	}
	if m.State().Filter != "Eaq" {
		t.Errorf("Expected filter %q, got %q", "Eaq", m.State().Filter)
	}
	if len(m.Report().Rows) != 0 {
		t.Errorf("Expected no matches, got %v", rowNames(m))
	}
	if !strings.Contains(m.View(), "No foods match") {
		t.Error("Expected empty-result hint in view")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.searching {
		t.Error("Expected enter to leave the search box")
	}
	if m.State().Filter != "Ea" {
		t.Errorf("Expected enter to keep the filter, got %q", m.State().Filter)
	}

	// esc outside the box clears the filter
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.State().Filter != "" || len(m.Report().Rows) != 3 {
		t.Errorf("Expected filter cleared, got %q with %d rows", m.State().Filter, len(m.Report().Rows))
	}
}

func TestBrowseInitialState(t *testing.T) {
	opts := Options{State: food.ViewState{Filter: "kal", SortKey: "Fat", Direction: food.Ascending}}
	m := loadModel(t, &fakeSource{ds: testDataset(t)}, opts)

	if diff := cmp.Diff([]string{"kale"}, rowNames(m)); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
	if m.search.Value() != "kal" {
		t.Errorf("Expected search box to show the initial filter, got %q", m.search.Value())
	}
}

func TestBrowseIgnoresStaleLoads(t *testing.T) {
	src := &fakeSource{ds: testDataset(t)}
	m := loadModel(t, src, Options{})
	stale := m.gen

	m.Update(keyRunes("r"))
	if m.CurrentView() != ViewLoading {
		t.Fatalf("Expected reload to show the loading view, got %s", m.CurrentView())
	}

	m.Update(dataErrorMsg{gen: stale, err: errors.New("late failure")})
	if m.CurrentView() != ViewLoading {
		t.Errorf("Expected stale result to be ignored, got %s", m.CurrentView())
	}

	m.Update(dataLoadedMsg{gen: m.gen, dataset: src.ds})
	if m.CurrentView() != ViewTable {
		t.Errorf("Expected table view, got %s", m.CurrentView())
	}
}

func TestBrowseReloadsOnFileChange(t *testing.T) {
	changes := make(chan string, 1)
	src := &fakeSource{ds: testDataset(t)}
	m := loadModel(t, src, Options{Changes: changes})
	before := m.gen

	_, cmd := m.Update(fileChangedMsg{path: "analyses/food_data.json"})
	if cmd == nil {
		t.Fatal("Expected a reload command")
	}
	if m.gen != before+1 || m.CurrentView() != ViewLoading {
		t.Errorf("Expected a new load generation in loading view, got gen %d view %s", m.gen, m.CurrentView())
	}
}

func TestWaitForChange(t *testing.T) {
	if waitForChange(nil) != nil {
		t.Error("Expected no command without a change channel")
	}

	changes := make(chan string, 1)
	changes <- "/data/food_data.json"
	msg := waitForChange(changes)()
	if got, ok := msg.(fileChangedMsg); !ok || got.path != "/data/food_data.json" {
		t.Errorf("Expected fileChangedMsg, got %#v", msg)
	}

	close(changes)
	if msg := waitForChange(changes)(); msg != nil {
		t.Errorf("Expected nil message on closed channel, got %#v", msg)
	}
}

func TestBrowseToggleSummary(t *testing.T) {
	m := loadModel(t, &fakeSource{ds: testDataset(t)}, Options{ShowSummary: false})
	if strings.Contains(m.View(), "Top Foods") {
		t.Error("Expected summary hidden")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	view := m.View()
	for _, want := range []string{"Top Foods", "Caloric Groups", "High-Nutrient", "almonds"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in summary view", want)
		}
	}
}

func TestBrowseQuit(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		load bool
	}{
		{name: "q in table", key: keyRunes("q"), load: true},
		{name: "ctrl+c in table", key: tea.KeyMsg{Type: tea.KeyCtrlC}, load: true},
		{name: "q while loading", key: keyRunes("q")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m *BrowseModel
			if tt.load {
				m = loadModel(t, &fakeSource{ds: testDataset(t)}, Options{})
			} else {
				m = NewBrowseModel(&fakeSource{}, Options{})
			}
			_, cmd := m.Update(tt.key)
			if !isQuit(cmd) {
				t.Error("Expected quit command")
			}
			if m.View() != "" {
				t.Error("Expected empty view after quitting")
			}
		})
	}
}

func TestBrowseHelp(t *testing.T) {
	m := loadModel(t, &fakeSource{ds: testDataset(t)}, Options{})
	m.Update(keyRunes("?"))
	if !strings.Contains(m.View(), "sort by Calories") {
		t.Errorf("Expected help to list sort keys, got:\n%s", m.View())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Error("Expected esc to close help")
	}
}
