package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yildizm/Nutripedia/internal/config"
	"github.com/yildizm/Nutripedia/internal/food"
)

// dataSource loads the joined dataset
type dataSource interface {
	Load(ctx context.Context) (*food.Dataset, error)
}

// viewFlags are the filter and sort flags shared by browse, table and serve
type viewFlags struct {
	filter string
	sort   string
	dir    string
}

// resolveState starts from the configured defaults and applies the flags
func resolveState(cfg *config.Config, flags viewFlags) (food.ViewState, error) {
	state := cfg.InitialState()
	if flags.filter != "" {
		state.Filter = flags.filter
	}
	if flags.sort != "" {
		key, err := food.ResolveSortKey(columns(cfg), flags.sort)
		if err != nil {
			return state, err
		}
		state.SortKey = key
		// A newly chosen column starts descending, as in the browser
		state.Direction = food.Descending
	}
	if flags.dir != "" {
		dir, err := food.ParseDirection(flags.dir)
		if err != nil {
			return state, err
		}
		state.Direction = dir
	}
	return state, nil
}

func columns(cfg *config.Config) []food.Column {
	if len(cfg.View.Columns) == 0 {
		return food.DefaultColumns()
	}
	return cfg.View.Columns
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
