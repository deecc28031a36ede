package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sdpower/cchistory/internal/browser"
	"github.com/sdpower/cchistory/internal/calculator"
	"github.com/sdpower/cchistory/internal/config"
	"github.com/sdpower/cchistory/internal/loader"
	"github.com/sdpower/cchistory/internal/output"
	"github.com/sdpower/cchistory/internal/pricing"
	"github.com/sdpower/cchistory/internal/threads"
	"github.com/sdpower/cchistory/internal/types"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	date       string
	dataPath   string
	configPath string
	format     string
	noColor    bool
	debug      bool
}

// NewRootCommand returns the cchistory command. It loads the day's records,
// builds the question threads and either browses them or prints a report.
func NewRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "cchistory",
		Short: "Browse a day of Claude Code message history",
		Long: `Reads the local Claude Code session logs for one calendar day, groups
them by user question and shows exchanges, tool use, tokens and cost.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.date, "date", "d", "", "Date to show (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&opts.dataPath, "data-path", "", "Path to Claude data directory")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config file (default ~/.cchistory.yaml)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format (interactive, table, json)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Show debug information")

	return cmd
}

func run(cmd *cobra.Command, opts options) error {
	out := cmd.OutOrStdout()
	log := newLogger(cmd.ErrOrStderr(), opts.debug)

	path, err := config.Path(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to locate config: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	rates, err := cfg.Rates()
	if err != nil {
		return err
	}

	date := types.Today(time.Now())
	if opts.date != "" {
		date, err = types.ParseCalendarDate(opts.date)
		if err != nil {
			return err
		}
	}

	format := resolveFormat(opts.format, cfg.Format, out)
	noColor := opts.noColor || cfg.NoColor

	dataLoader := loader.New(cfg.ResolveDataPath(opts.dataPath))
	dataLoader.SetLogger(log)
	log.Debugf("reading logs for %s from %s", date, dataLoader.Root())

	ths, stats, err := collect(cmd.Context(), dataLoader, date, rates, log)
	switch {
	case errors.Is(err, types.ErrNoEntries):
		fmt.Fprintf(out, "No log entries found for %s.\n", date)
		fmt.Fprintln(out, "Please use Claude Code first, then try again.")
		return nil
	case errors.Is(err, types.ErrNoThreads):
		fmt.Fprintf(out, "No user messages found for %s.\n", date)
		return nil
	case err != nil:
		return err
	}

	if format == config.DefaultFormat {
		return browser.Run(cmd.Context(), ths, stats, browser.Options{
			Date:    date,
			NoColor: noColor,
			Rates:   rates,
		})
	}

	formatter := output.NewFormatter(output.FormatterOptions{
		Format:  format,
		NoColor: noColor,
		Rates:   rates,
	})
	report, err := formatter.FormatDailyReport(date, ths, stats)
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}
	fmt.Fprint(out, report)
	return nil
}

// collect runs the load, build and aggregate stages for one day.
func collect(ctx context.Context, l *loader.Loader, date types.CalendarDate, rates pricing.Rates, log *logrus.Logger) ([]types.Thread, types.DailyStats, error) {
	records, err := l.LoadRecordsForDate(ctx, date)
	if err != nil {
		return nil, types.DailyStats{}, fmt.Errorf("failed to load message history: %w", err)
	}
	if len(records) == 0 {
		return nil, types.DailyStats{}, types.ErrNoEntries
	}

	ths := threads.NewBuilder(rates).Build(records)
	log.Debugf("built %d threads from %d records", len(ths), len(records))
	if len(ths) == 0 {
		return nil, types.DailyStats{}, types.ErrNoThreads
	}

	return ths, calculator.Aggregate(ths), nil
}
