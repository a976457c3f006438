package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/Nutripedia/internal/food"
)

// Load results carry the generation of the load that produced them so a
// superseded load can be ignored.
type dataLoadedMsg struct {
	gen     int
	dataset *food.Dataset
}

type dataErrorMsg struct {
	gen int
	err error
}

type fileChangedMsg struct {
	path string
}

// CreateLoadCommand creates a tea command that runs one joined load
func CreateLoadCommand(ctx context.Context, source DataSource, gen int) tea.Cmd {
	return func() tea.Msg {
		ds, err := source.Load(ctx)
		if err != nil {
			return dataErrorMsg{gen: gen, err: err}
		}
		return dataLoadedMsg{gen: gen, dataset: ds}
	}
}

// waitForChange blocks until the watcher reports a change
func waitForChange(changes <-chan string) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-changes
		if !ok {
			return nil
		}
		return fileChangedMsg{path: path}
	}
}
