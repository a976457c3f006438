package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/Nutripedia/internal/food"
	"github.com/yildizm/Nutripedia/internal/formatter"
	"github.com/yildizm/Nutripedia/internal/loader"
	"github.com/yildizm/Nutripedia/internal/logger"
)

// errLoadFailed is what the user sees for any load failure; details go to
// the verbose log
var errLoadFailed = errors.New(loader.UserMessage)

var (
	tableView       viewFlags
	tableLimit      int
	tableOutputFile string

	summaryOutputFile string
)

// reportOptions selects what a one-shot report contains
type reportOptions struct {
	view       viewFlags
	limit      int
	outputFile string
	sections   formatter.Sections
}

func newTableCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the filtered and sorted catalogue",
		Long: `Load the catalogue and print it as a table in the selected output format.

The filter keeps foods whose name contains the text, ignoring case. Sorting
is numeric; values that are missing or not numbers sort as 0.

Examples:
  nutripedia table --filter cheese
  nutripedia table --sort "Caloric Value" --dir desc --limit 10
  nutripedia table -o xlsx --output-file foods.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, reportOptions{
				view:       tableView,
				limit:      tableLimit,
				outputFile: tableOutputFile,
				sections:   formatter.TableOnly,
			})
		},
	}

	cmd.Flags().StringVar(&tableView.filter, "filter", "", "keep foods whose name contains this text")
	cmd.Flags().StringVar(&tableView.sort, "sort", "", "sort column (key or label)")
	cmd.Flags().StringVar(&tableView.dir, "dir", "", "sort direction (asc, desc)")
	cmd.Flags().IntVar(&tableLimit, "limit", 0, "show at most this many rows (0 for all)")
	cmd.Flags().StringVar(&tableOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func newSummaryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the summary panels",
		Long: `Load the catalogue and print the precomputed summary: top foods per
nutrient, caloric groups, high-nutrient foods and column statistics.

Examples:
  nutripedia summary
  nutripedia summary -o markdown --output-file summary.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, reportOptions{
				outputFile: summaryOutputFile,
				sections:   formatter.SummaryOnly,
			})
		},
	}

	cmd.Flags().StringVar(&summaryOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runReport(cmd *cobra.Command, opts reportOptions) error {
	cfg := GetGlobalConfig()
	log := newLogger("report")

	if opts.limit < 0 {
		return fmt.Errorf("invalid limit: %d (must be 0 or more)", opts.limit)
	}
	state, err := resolveState(cfg, opts.view)
	if err != nil {
		return err
	}

	format := getOutputFormat(cmd)
	toTerminal := opts.outputFile == "" && stdoutIsTerminal()
	if isBinaryFormat(format) && toTerminal {
		return fmt.Errorf("%s output is binary; use --output-file", format)
	}
	f, err := formatter.New(format, useColor() && opts.outputFile == "", opts.sections)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	ds, err := loadDataset(ctx, loader.New(cfg.Data, log.WithComponent("loader")), log)
	if err != nil {
		return err
	}

	report := food.NewReport(ds, state, columns(cfg)).Limit(opts.limit)
	output, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if isTextFormat(format) && cfg.Output.TimestampFormat != "" {
		output = append(output, fmt.Sprintf("Generated %s\n", report.GeneratedAt.Format(cfg.Output.TimestampFormat))...)
	}

	return handleOutputDestination(cmd.OutOrStdout(), output, opts.outputFile, log)
}

// loadDataset runs the joined load, logging the cause and returning the
// single user-facing error on failure
func loadDataset(ctx context.Context, source dataSource, log *logger.Logger) (*food.Dataset, error) {
	ds, err := source.Load(ctx)
	if err != nil {
		log.DebugWithFields("load failed", []logger.Field{logger.Error(err)})
		return nil, errLoadFailed
	}
	return ds, nil
}

func isBinaryFormat(format string) bool {
	switch strings.ToLower(format) {
	case "xlsx", "excel":
		return true
	}
	return false
}

func isTextFormat(format string) bool {
	switch strings.ToLower(format) {
	case "", "text", "terminal":
		return true
	}
	return false
}

// handleOutputDestination writes output to file or stdout
func handleOutputDestination(stdout io.Writer, output []byte, outputFile string, log *logger.Logger) error {
	if outputFile == "" {
		_, err := stdout.Write(output)
		return err
	}

	if err := writeOutputBytesToFile(output, outputFile); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	log.InfoWithFields("output saved", []logger.Field{logger.Path(outputFile)})
	return nil
}

// writeOutputBytesToFile writes output to a file, creating parent directories
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if _, err := file.Write(output); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return file.Close()
}
