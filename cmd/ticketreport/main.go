// Package main provides the CLI entry point for ticketreport-go.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ukaji3/ticketreport-go/internal/config"
	"github.com/ukaji3/ticketreport-go/internal/logging"
	"github.com/ukaji3/ticketreport-go/internal/server"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		printError(root.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ticketreport",
		Short: "Generate branded ticket reports from spreadsheet exports",
		Long: `ticketreport reads a ticket export workbook and produces a PowerPoint deck
and a self-contained HTML slide deck with KPIs and charts.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	var configPath string
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")

	root.AddCommand(newGenerateCmd(&configPath), newServeCmd(&configPath))
	return root
}

type generateFlags struct {
	sheet      string
	headerRow  int
	dateColumn string
	threshold  float64
	primary    string
	secondary  string
	tertiary   string
	logo       string
	title      string
	client     string
	outDir     string
	logLevel   string
}

func newGenerateCmd(configPath *string) *cobra.Command {
	defaults := config.Default().Report
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate <input.xlsx>",
		Short: "Generate the PPTX and HTML reports for a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], *configPath, &f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.sheet, "sheet", defaults.Sheet, "Sheet holding the tickets")
	fl.IntVar(&f.headerRow, "header-row", defaults.HeaderRow, "1-based row holding the column names")
	fl.StringVar(&f.dateColumn, "date-column", defaults.DateColumn, "Column with the reported date")
	fl.Float64Var(&f.threshold, "threshold", defaults.Threshold, "Group donut slices below this percent into Other (0-10)")
	fl.StringVar(&f.primary, "primary", defaults.Primary, "Primary brand colour")
	fl.StringVar(&f.secondary, "secondary", defaults.Secondary, "Secondary brand colour")
	fl.StringVar(&f.tertiary, "tertiary", defaults.Tertiary, "Tertiary brand colour")
	fl.StringVar(&f.logo, "logo", "", "PNG or JPEG logo")
	fl.StringVar(&f.title, "title", defaults.Title, "Report title")
	fl.StringVar(&f.client, "client", defaults.Client, "Client name shown under the title")
	fl.StringVarP(&f.outDir, "out-dir", "o", ".", "Directory for the generated files")
	fl.StringVar(&f.logLevel, "log-level", config.Default().Log.Level, "Log level: debug, info, warn, error (overrides log.level)")
	return cmd
}

// applyFlags overrides configured values with the flags given on the command line.
func (f *generateFlags) applyFlags(cmd *cobra.Command, r *config.ReportConfig) {
	changed := cmd.Flags().Changed
	if changed("sheet") {
		r.Sheet = f.sheet
	}
	if changed("header-row") {
		r.HeaderRow = f.headerRow
	}
	if changed("date-column") {
		r.DateColumn = f.dateColumn
	}
	if changed("threshold") {
		r.Threshold = f.threshold
	}
	if changed("primary") {
		r.Primary = f.primary
	}
	if changed("secondary") {
		r.Secondary = f.secondary
	}
	if changed("tertiary") {
		r.Tertiary = f.tertiary
	}
	if changed("logo") {
		r.Logo = f.logo
	}
	if changed("title") {
		r.Title = f.title
	}
	if changed("client") {
		r.Client = f.client
	}
}

func runGenerate(cmd *cobra.Command, inputPath, configPath string, f *generateFlags) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	f.applyFlags(cmd, &cfg.Report)

	opts, err := cfg.Report.Options()
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if cmd.Flags().Changed("log-level") {
		level = f.logLevel
	}
	opts.Logger, err = logging.New(cfg.Log.Format, level, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	report, err := ticketreport.GenerateFile(inputPath, opts)
	if err != nil {
		if errors.Is(err, ticketreport.ErrFileNotFound) {
			return fmt.Errorf("file not found: %s", inputPath)
		}
		return err
	}

	// Nothing is written unless every stage succeeded.
	if err := os.MkdirAll(f.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, a := range report.Artifacts() {
		path := filepath.Join(f.outDir, a.Filename)
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		successColor.Fprintf(out, "✓ Wrote %s (%d bytes)\n", path, len(a.Data))
	}
	infoColor.Fprintf(out, "Tickets: %d  Conversations: %d  Replies: %d\n",
		report.Metrics.TotalTickets, report.Metrics.TotalConversations, report.Metrics.TotalReplies)
	return nil
}

func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			logger, err := logging.New(cfg.Log.Format, cfg.Log.Level, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			srv, err := server.New(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.Default().Server.Addr, "Listen address")
	return cmd
}

// printError reports err the way users expect to read it: the missing date
// column with what the sheet offers, otherwise the underlying cause.
func printError(w io.Writer, err error) {
	var colErr *ticketreport.ColumnNotFoundError
	if errors.As(err, &colErr) {
		errorColor.Fprintf(w, "Error: column %q was not found in the sheet.\n", colErr.Column)
		fmt.Fprintf(w, "Available columns: %s\n", strings.Join(colErr.Available, ", "))
		if colErr.HeaderRow > 0 {
			fmt.Fprintf(w, "The column appears in row %d; try --header-row %d.\n", colErr.HeaderRow, colErr.HeaderRow)
			return
		}
		fmt.Fprintln(w, "Set --date-column to one of them.")
		return
	}

	var stageErr *ticketreport.StageError
	if errors.As(err, &stageErr) {
		err = stageErr.Err
	}
	errorColor.Fprintf(w, "Error: %v\n", err)
}
