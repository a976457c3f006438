package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yildizm/Nutripedia/internal/config"
	"github.com/yildizm/Nutripedia/internal/food"
	"github.com/yildizm/Nutripedia/internal/formatter"
	"github.com/yildizm/Nutripedia/internal/loader"
)

const testDataset = `[
  {"food": "cream cheese", "Caloric Value": 51, "Fat": 5},
  {"food": "kale", "Caloric Value": 33, "Fat": 0.5},
  {"food": "almonds", "Caloric Value": 579, "Fat": 49.9}
]`

const testAnalyses = `{
  "top_foods": {"Fat": [{"food": "almonds", "Fat": 49.9}]},
  "high_nutrient_foods": [{"food": "kale"}],
  "caloric_groups": [{"Caloric_Range": "Low (<100)", "food": ["kale", "cream cheese"]}]
}`

// setupData writes the two documents and points the configuration at them
func setupData(t *testing.T, dataset, analyses string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "analyses"), 0o750); err != nil {
		t.Fatal(err)
	}
	if dataset != "" {
		if err := os.WriteFile(filepath.Join(dir, "analyses", "food_data.json"), []byte(dataset), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if analyses != "" {
		if err := os.WriteFile(filepath.Join(dir, "analyses", "summary_analyses.json"), []byte(analyses), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("NUTRIPEDIA_DATA_BASE", dir)
	return dir
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { globalConfig = nil })

	cmd := NewRootCommand("1.2.3", "abc123", "2024-01-01")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveState(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.View.DefaultSort = "Fat"
	cfg.View.DefaultDirection = "asc"

	tests := []struct {
		name    string
		flags   viewFlags
		want    food.ViewState
		wantErr bool
	}{
		{name: "config defaults", want: food.ViewState{SortKey: "Fat", Direction: food.Ascending}},
		{name: "new column starts descending", flags: viewFlags{sort: "Protein (g)"},
			want: food.ViewState{SortKey: "Protein", Direction: food.Descending}},
		{name: "explicit direction wins", flags: viewFlags{sort: "Protein", dir: "asc"},
			want: food.ViewState{SortKey: "Protein", Direction: food.Ascending}},
		{name: "flags override", flags: viewFlags{filter: "kale", sort: "Calories", dir: "asc"},
			want: food.ViewState{Filter: "kale", SortKey: "Caloric Value", Direction: food.Ascending}},
		{name: "unknown column", flags: viewFlags{sort: "Sodium"}, wantErr: true},
		{name: "name column", flags: viewFlags{sort: "Food"}, wantErr: true},
		{name: "bad direction", flags: viewFlags{dir: "up"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveState(cfg, tt.flags)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveState() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("State mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestShouldUseTUI(t *testing.T) {
	tests := []struct {
		format   string
		terminal bool
		want     bool
	}{
		{format: "text", terminal: true, want: true},
		{format: "", terminal: true, want: true},
		{format: "text", terminal: false, want: false},
		{format: "json", terminal: true, want: false},
	}
	for _, tt := range tests {
		if got := shouldUseTUI(tt.format, tt.terminal); got != tt.want {
			t.Errorf("shouldUseTUI(%q, %v) = %v, want %v", tt.format, tt.terminal, got, tt.want)
		}
	}
}

func TestTableCommandJSON(t *testing.T) {
	setupData(t, testDataset, testAnalyses)

	out, err := executeCommand(t, "table", "-o", "json", "--filter", "E", "--sort", "Calories", "--dir", "desc")
	if err != nil {
		t.Fatalf("table failed: %v", err)
	}

	var doc formatter.JSONOutput
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("unmarshal: %v output=%s", err, out)
	}
	got := make([]string, 0, len(doc.Table.Rows))
	for _, r := range doc.Table.Rows {
		got = append(got, r.Food)
	}
	if diff := cmp.Diff([]string{"cream cheese", "kale"}, got); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
	if doc.Summary != nil {
		t.Error("Expected table command to leave out the summary")
	}
}

func TestTableCommandSortWithoutDirection(t *testing.T) {
	setupData(t, testDataset, testAnalyses)

	out, err := executeCommand(t, "table", "-o", "json", "--sort", "Fat")
	if err != nil {
		t.Fatalf("table failed: %v", err)
	}

	var doc formatter.JSONOutput
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("unmarshal: %v output=%s", err, out)
	}
	if doc.View.Direction != "desc" {
		t.Errorf("Expected a new sort column to start descending, got %v", doc.View.Direction)
	}
	got := make([]string, 0, len(doc.Table.Rows))
	for _, r := range doc.Table.Rows {
		got = append(got, r.Food)
	}
	if diff := cmp.Diff([]string{"almonds", "cream cheese", "kale"}, got); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}

func TestTableCommandText(t *testing.T) {
	setupData(t, testDataset, testAnalyses)

	out, err := executeCommand(t, "table", "--no-emoji", "--limit", "2")
	if err != nil {
		t.Fatalf("table failed: %v", err)
	}
	for _, want := range []string{"Nutripedia", "cream cheese", "kale", "showing first 2", "Generated "} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "almonds") {
		t.Errorf("Expected limit to cut the third row:\n%s", out)
	}
}

func TestTableCommandOutputFile(t *testing.T) {
	setupData(t, testDataset, testAnalyses)
	path := filepath.Join(t.TempDir(), "reports", "foods.csv")

	out, err := executeCommand(t, "table", "-o", "csv", "--output-file", path)
	if err != nil {
		t.Fatalf("table failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected nothing on stdout, got %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if !strings.HasPrefix(string(data), "Food,Calories") {
		t.Errorf("Unexpected CSV:\n%s", data)
	}
}

func TestTableCommandBadFlags(t *testing.T) {
	setupData(t, testDataset, testAnalyses)

	for _, args := range [][]string{
		{"table", "--sort", "Sodium"},
		{"table", "--dir", "sideways"},
		{"table", "--limit", "-1"},
		{"table", "-o", "pdf"},
	} {
		if _, err := executeCommand(t, args...); err == nil {
			t.Errorf("Expected error for %v", args)
		}
	}
}

func TestSummaryCommand(t *testing.T) {
	setupData(t, testDataset, testAnalyses)

	out, err := executeCommand(t, "summary", "-o", "markdown")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	for _, want := range []string{"Top Foods", "Caloric Groups", "almonds"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Generated ") {
		t.Error("Expected no text footer in markdown output")
	}
}

func TestLoadFailureShowsSingleMessage(t *testing.T) {
	setupData(t, testDataset, "")

	for _, name := range []string{"table", "summary"} {
		t.Run(name, func(t *testing.T) {
			out, err := executeCommand(t, name, "-o", "json")
			if err == nil {
				t.Fatal("Expected failure without analyses")
			}
			if err.Error() != loader.UserMessage {
				t.Errorf("Expected %q, got %q", loader.UserMessage, err.Error())
			}
			if out != "" {
				t.Errorf("Expected no partial output, got %q", out)
			}
		})
	}
}

func TestBrowseFallsBackToReport(t *testing.T) {
	setupData(t, testDataset, testAnalyses)

	// Test output is never a terminal
	out, err := executeCommand(t, "-o", "json", "--filter", "kale")
	if err != nil {
		t.Fatalf("browse failed: %v", err)
	}
	var doc formatter.JSONOutput
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("unmarshal: %v output=%s", err, out)
	}
	if doc.Table == nil || doc.Summary == nil {
		t.Fatal("Expected table and summary in fallback report")
	}
	if len(doc.Table.Rows) != 1 || doc.Table.Rows[0].Food != "kale" {
		t.Errorf("Expected only kale, got %+v", doc.Table.Rows)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := executeCommand(t, "config", "init", "--minimal", "--output", path)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("Expected path in output, got %q", out)
	}
	if _, err := config.NewLoader().LoadConfig(path); err != nil {
		t.Errorf("Expected generated config to load: %v", err)
	}

	if _, err := executeCommand(t, "config", "init", "--output", path); err == nil {
		t.Error("Expected error when the file exists")
	}
	if _, err := executeCommand(t, "config", "init", "--force", "--output", path); err != nil {
		t.Errorf("Expected --force to overwrite: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(good, []byte("output:\n  default_format: csv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("output:\n  default_format: pdf\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "config", "validate", "--config", good)
	if err != nil {
		t.Fatalf("Expected valid config: %v", err)
	}
	if !strings.Contains(out, "Output Format: csv") {
		t.Errorf("Expected summary in output, got:\n%s", out)
	}

	out, err = executeCommand(t, "config", "validate", "--config", bad)
	if err == nil {
		t.Fatal("Expected invalid config to fail")
	}
	if !strings.Contains(out, "validation failed") {
		t.Errorf("Expected failure report, got:\n%s", out)
	}
}

func TestConfigShow(t *testing.T) {
	out, err := executeCommand(t, "config", "show", "--format", "json")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	var cfg config.Config
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("unmarshal: %v output=%s", err, out)
	}
	if cfg.Data.Dataset == "" {
		t.Error("Expected dataset location in shown config")
	}

	if _, err := executeCommand(t, "config", "show", "--format", "toml"); err == nil {
		t.Error("Expected unsupported format to fail")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "Nutripedia 1.2.3 (abc123) built on 2024-01-01") {
		t.Errorf("Unexpected version output:\n%s", out)
	}
}
