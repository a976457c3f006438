package cli

import (
	"github.com/spf13/cobra"

	"github.com/yildizm/Nutripedia/internal/loader"
	"github.com/yildizm/Nutripedia/internal/logger"
	"github.com/yildizm/Nutripedia/internal/server"
)

var (
	serveAddr  string
	serveWatch bool
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalogue over HTTP",
		Long: `Start a JSON API over the catalogue.

Endpoints:
  GET /api/status                              load state
  GET /api/columns                             table columns
  GET /api/metrics                             load, request and export timings
  GET /api/foods?q=&sort=&dir=&limit=          filtered and sorted foods
  GET /api/summary                             summary panels
  GET /api/export?format=&q=&sort=&dir=&limit= report download

If the data cannot be loaded every data endpoint answers 503 until a
reload succeeds.

Examples:
  nutripedia serve
  nutripedia serve --addr :9090 --watch`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&serveWatch, "watch", false, "reload when local data files change")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := GetGlobalConfig()
	log := newLogger("serve")

	addr := cfg.Server.Address
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, cancel := signalContext()
	defer cancel()

	ld := loader.New(cfg.Data, log.WithComponent("loader"))
	srv := server.New(cfg, ld, log.WithComponent("server"))

	// A failed first load is served as 503 rather than stopping the server
	if err := srv.Reload(ctx); err != nil {
		log.WarnWithFields("initial load failed", []logger.Field{logger.Error(err)})
	}

	if serveWatch || cfg.Data.Watch {
		changes, err := startWatcher(ctx, ld, log)
		if err != nil {
			return err
		}
		if changes != nil {
			go srv.Watch(ctx, changes)
		}
	}

	err := srv.Run(ctx, addr)

	for _, op := range srv.Metrics().Snapshot().Operations {
		log.InfoWithFields("operation totals", []logger.Field{
			logger.F("operation", op.Operation),
			logger.Count(int(op.Count)),
			logger.F("errors", op.Errors),
			logger.F("avg", op.Avg),
		})
	}
	return err
}
