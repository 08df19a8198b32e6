package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/bitwatcher"
	"github.com/raykavin/bitwatcher/pkg/backfill"
	"github.com/raykavin/bitwatcher/pkg/config"
	"github.com/raykavin/bitwatcher/pkg/core"
	"github.com/raykavin/bitwatcher/pkg/exchange"
	"github.com/raykavin/bitwatcher/pkg/metric"
	"github.com/raykavin/bitwatcher/pkg/plugin"
	"github.com/raykavin/bitwatcher/pkg/plugins"
	"github.com/raykavin/bitwatcher/pkg/storage"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// Command line flags
var (
	// Download command flags
	pair       string
	days       int
	startDate  string
	endDate    string
	timeframe  string
	outputFile string

	// Stats command flags
	actionableOnly bool
	sinceDays      int
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "bitwatcher",
		Short:   "Market analysis bot for crypto pairs",
		Version: "1.0.0",
	}

	rootCmd.AddCommand(
		buildRunCmd(),
		buildComponentsCmd(),
		buildDownloadCmd(),
		buildStatsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the analysis loop",
		RunE:  runBot,
	}
}

func runBot(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(bitwatcher.DefaultLog)
	if err != nil {
		return err
	}

	bot, err := bitwatcher.NewBot(settings)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bot.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func buildComponentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "List the registered analysis components",
		RunE:  listComponents,
	}
}

func listComponents(cmd *cobra.Command, args []string) error {
	registry := plugin.NewRegistry(bitwatcher.DefaultLog)
	plugins.RegisterAll(registry, bitwatcher.DefaultLog)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Category", "Phases", "Priority", "Depends On"})

	for _, name := range registry.Names() {
		desc, _ := registry.Get(name)

		var deps []string
		if desc.DependsOn != nil {
			deps = desc.DependsOn()
		}

		table.Append([]string{
			name,
			string(desc.Metadata.Category),
			strings.Join(desc.Metadata.Tags, ", "),
			fmt.Sprintf("%d", desc.Metadata.Priority),
			strings.Join(deps, ", "),
		})
	}

	table.Render()
	return nil
}

func buildDownloadCmd() *cobra.Command {
	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Download historical candles to a CSV file",
		RunE:  runDownload,
	}

	downloadCmd.Flags().StringVarP(&pair, "pair", "p", "", "Trading pair (e.g. BTCUSDT)")
	downloadCmd.Flags().IntVarP(&days, "days", "d", 0, "Number of days to download (default 30 days)")
	downloadCmd.Flags().StringVarP(&startDate, "start", "s", "", "Start date (e.g. 2025-12-01)")
	downloadCmd.Flags().StringVarP(&endDate, "end", "e", "", "End date (e.g. 2025-12-31)")
	downloadCmd.Flags().StringVarP(&timeframe, "timeframe", "t", "", "Timeframe (e.g. 1h)")
	downloadCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (e.g. ./btc.csv)")

	downloadCmd.MarkFlagRequired("pair")
	downloadCmd.MarkFlagRequired("timeframe")
	downloadCmd.MarkFlagRequired("output")

	return downloadCmd
}

func runDownload(cmd *cobra.Command, args []string) error {
	feeder, err := exchange.NewBinance(cmd.Context(), bitwatcher.DefaultLog)
	if err != nil {
		return err
	}

	options, err := buildDownloadOptions()
	if err != nil {
		return err
	}

	return backfill.NewDownloader(feeder, bitwatcher.DefaultLog).Download(
		cmd.Context(),
		pair,
		timeframe,
		outputFile,
		options...,
	)
}

func buildDownloadOptions() ([]backfill.Option, error) {
	var options []backfill.Option

	if days > 0 {
		options = append(options, backfill.WithDays(days))
	}

	if startDate != "" || endDate != "" {
		if startDate == "" || endDate == "" {
			return nil, fmt.Errorf("start and end dates must be provided together")
		}

		start, err := time.Parse(dateLayout, startDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date format: %w", err)
		}

		end, err := time.Parse(dateLayout, endDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date format: %w", err)
		}

		options = append(options, backfill.WithInterval(start, end))
	}

	return options, nil
}

func buildStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the stored signals",
		RunE:  runStats,
	}

	statsCmd.Flags().BoolVarP(&actionableOnly, "actionable", "a", false, "Only count actionable signals")
	statsCmd.Flags().IntVarP(&sinceDays, "since", "s", 0, "Only count signals from the last N days")

	return statsCmd
}

func runStats(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(bitwatcher.DefaultLog)
	if err != nil {
		return err
	}

	if settings.Storage.Driver != "buntdb" {
		return fmt.Errorf("stats supports the buntdb driver only, got %q", settings.Storage.Driver)
	}

	store, err := storage.FromFile(settings.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	var filters []storage.SignalFilter
	if actionableOnly {
		filters = append(filters, storage.WithActionable())
	}
	if sinceDays > 0 {
		filters = append(filters, storage.CreatedAfter(time.Now().AddDate(0, 0, -sinceDays)))
	}

	signals, err := store.Signals(filters...)
	if err != nil {
		return err
	}

	printSummary(metric.Summarize(signals))

	scores := metric.Scores(signals)
	if err := metric.PrintHistogram(os.Stdout, scores, 10); err != nil {
		return err
	}

	if len(scores) > 1 {
		mean := func(values []float64) float64 {
			total := 0.0
			for _, v := range values {
				total += v
			}
			return total / float64(len(values))
		}

		interval := metric.Bootstrap(scores, mean, 1000, 0.95)
		fmt.Printf("mean score %.3f, 95%% CI [%.3f, %.3f]\n", interval.Mean, interval.Lower, interval.Upper)
	}

	return nil
}

func printSummary(summary metric.Summary) {
	table := tablewriter.NewWriter(os.Stdout)

	data := [][]string{
		{"Signals", fmt.Sprintf("%d", summary.Count)},
		{"Long", fmt.Sprintf("%d", summary.ByDirection[core.Long])},
		{"Short", fmt.Sprintf("%d", summary.ByDirection[core.Short])},
		{"Neutral", fmt.Sprintf("%d", summary.ByDirection[core.Neutral])},
		{"Mean", fmt.Sprintf("%.3f", summary.Mean)},
		{"StdDev", fmt.Sprintf("%.3f", summary.StdDev)},
		{"Median", fmt.Sprintf("%.3f", summary.Median)},
		{"P90", fmt.Sprintf("%.3f", summary.P90)},
	}

	table.AppendBulk(data)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Render()
}
