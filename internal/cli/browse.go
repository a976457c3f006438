package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yildizm/Nutripedia/internal/formatter"
	"github.com/yildizm/Nutripedia/internal/loader"
	"github.com/yildizm/Nutripedia/internal/logger"
	"github.com/yildizm/Nutripedia/internal/ui"
)

var (
	browseView  viewFlags
	browseWatch bool
	browseTheme string
)

func newBrowseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalogue interactively",
		Long: `Open the interactive food browser.

Type / to search by name, press a number key to sort by that column
(press it again to flip the direction, 0 to clear), tab to show or hide
the summary panels, r to reload and q to quit.

When standard output is not a terminal the table report is printed instead.

Examples:
  nutripedia
  nutripedia browse --sort Protein --dir desc
  nutripedia browse --filter cheese --watch`,
		Args: cobra.NoArgs,
		RunE: runBrowse,
	}
	addBrowseFlags(cmd)
	return cmd
}

func addBrowseFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&browseView.filter, "filter", "", "initial name filter")
	cmd.Flags().StringVar(&browseView.sort, "sort", "", "initial sort column (key or label)")
	cmd.Flags().StringVar(&browseView.dir, "dir", "", "initial sort direction (asc, desc)")
	cmd.Flags().BoolVar(&browseWatch, "watch", false, "reload when local data files change")
	cmd.Flags().StringVar(&browseTheme, "theme", "default", "color theme (default, high-contrast, minimal)")
}

// shouldUseTUI reports whether the interactive browser can run
func shouldUseTUI(format string, terminal bool) bool {
	return terminal && (format == "" || format == "text")
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	cfg := GetGlobalConfig()

	if !shouldUseTUI(getOutputFormat(cmd), stdoutIsTerminal()) {
		return runReport(cmd, reportOptions{view: browseView, sections: formatter.All})
	}

	state, err := resolveState(cfg, browseView)
	if err != nil {
		return err
	}
	if !ui.SetThemeByName(browseTheme) {
		return fmt.Errorf("unknown theme: %s (use one of %v)", browseTheme, ui.GetAvailableThemes())
	}

	// The browser owns the terminal
	log := newLogger("browse")
	log.SetWriter(io.Discard)

	ctx, cancel := signalContext()
	defer cancel()

	ld := loader.New(cfg.Data, log.WithComponent("loader"))
	opts := ui.Options{
		Columns:     columns(cfg),
		State:       state,
		ShowSummary: cfg.View.ShowSummary,
	}

	if browseWatch || cfg.Data.Watch {
		changes, err := startWatcher(ctx, ld, log)
		if err != nil {
			return err
		}
		opts.Changes = changes
	}

	return ui.Run(ctx, ld, opts)
}

// startWatcher watches the local data files in the background. Remote
// locations cannot be watched and are skipped.
func startWatcher(ctx context.Context, ld *loader.Loader, log *logger.Logger) (<-chan string, error) {
	files := ld.LocalFiles()
	if len(files) == 0 {
		log.Warn("--watch ignored: no local data files")
		return nil, nil
	}

	w, err := loader.NewWatcher(files, log.WithComponent("watcher"))
	if err != nil {
		return nil, fmt.Errorf("failed to watch data files: %w", err)
	}

	go func() {
		if err := w.Run(ctx); err != nil {
			log.ErrorWithFields("watcher stopped", []logger.Field{logger.Error(err)})
		}
	}()
	return w.Changes(), nil
}
