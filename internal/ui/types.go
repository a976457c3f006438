package ui

import (
	"context"

	"github.com/yildizm/Nutripedia/internal/food"
)

// View represents different UI views
type View int

const (
	ViewLoading View = iota
	ViewError
	ViewTable
)

// String returns the view name
func (v View) String() string {
	switch v {
	case ViewLoading:
		return "loading"
	case ViewError:
		return "error"
	case ViewTable:
		return "table"
	default:
		return "unknown"
	}
}

// DataSource loads the joined dataset. *loader.Loader satisfies it.
type DataSource interface {
	Load(ctx context.Context) (*food.Dataset, error)
}

// Options configures the browse model
type Options struct {
	Columns     []food.Column
	State       food.ViewState
	ShowSummary bool

	// Changes delivers a path whenever a watched data file changes.
	// A nil channel disables live reload.
	Changes <-chan string
}
