package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/pricer/journal"
	"github.com/rustyeddy/pricer/pkg/id"
	"github.com/rustyeddy/pricer/portfolio"
	"github.com/rustyeddy/pricer/risk"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Price the configured portfolio and compute its risk",
	Long: `Load the market and the trades file named in the config, price every trade,
compute DV01, vega and spot sensitivities and write one report row per trade.

A trade that cannot be priced is reported with status "error" and the run
continues; the command still exits non-zero. Use --fail-fast to stop at the
first failure instead.

Example:
  pricer run -c pricer.yaml --date 2025-01-02 --db runs.sqlite`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var (
	runReport     string
	runDBPath     string
	runConcurrent bool
	runFailFast   bool
	runVerbose    bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runReport, "report", "o", "", "report file (overrides output.report_file)")
	runCmd.Flags().StringVarP(&runDBPath, "db", "d", "", "SQLite journal (overrides output.db_path)")
	runCmd.Flags().BoolVar(&runConcurrent, "concurrent", true, "compute each trade's risk on the worker pool")
	runCmd.Flags().BoolVar(&runFailFast, "fail-fast", false, "stop at the first trade that fails")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "print the market snapshot before pricing")
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	cfg := s.cfg
	if cmd.Flags().Changed("report") {
		cfg.Output.ReportFile = runReport
	}
	if cmd.Flags().Changed("db") {
		cfg.Output.DBPath = runDBPath
	}
	if cmd.Flags().Changed("concurrent") {
		cfg.Risk.Concurrent = runConcurrent
	}
	if cmd.Flags().Changed("fail-fast") {
		cfg.Risk.FailFast = runFailFast
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	snap, err := s.market()
	if err != nil {
		return err
	}
	book, err := s.portfolio()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if runVerbose {
		fmt.Fprintln(out, snap.Describe())
	}

	engine, err := risk.NewEngine(snap, riskConfig(s), risk.WithLogger(s.log))
	if err != nil {
		return err
	}

	j, err := openJournals(cfg.Output.ReportFile, delimiter(cfg), cfg.Output.DBPath)
	if err != nil {
		return err
	}
	defer j.Close()

	run := journal.RunRecord{
		RunID:         id.New(),
		Created:       time.Now(),
		ValuationDate: s.asOf.String(),
		ConfigPath:    cfgFile,
		Steps:         cfg.Pricer.Steps,
		CurveShock:    cfg.Risk.CurveShock,
		VolShock:      cfg.Risk.VolShock,
		SpotShock:     cfg.Risk.SpotShock,
		Concurrent:    cfg.Risk.Concurrent,
	}
	if err := j.RecordRun(run); err != nil {
		return err
	}
	s.log.Info("run started",
		zap.String("run_id", run.RunID),
		zap.String("as_of", run.ValuationDate),
		zap.Int("trades", book.Len()),
	)

	sum, evalErr := portfolio.Evaluate(cmd.Context(), snap, book, engine, portfolio.Options{
		RunID:      run.RunID,
		Concurrent: cfg.Risk.Concurrent,
		FailFast:   cfg.Risk.FailFast,
		Journal:    j,
		Logger:     s.log,
	})

	run.Trades, run.Failed, run.TotalPV, run.Elapsed = sum.Trades, sum.Failed, sum.TotalPV, sum.Elapsed
	if err := j.RecordRun(run); err != nil {
		return err
	}

	printSummary(out, run, sum.Results)
	fmt.Fprintf(out, "\nReport: %s\n", cfg.Output.ReportFile)
	if cfg.Output.DBPath != "" {
		fmt.Fprintf(out, "Journal: %s (run %s)\n", cfg.Output.DBPath, run.RunID)
	}

	if errors.Is(evalErr, portfolio.ErrPartialFailure) {
		return fmt.Errorf("run %s: %w", run.RunID, evalErr)
	}
	return evalErr
}

func riskConfig(s *session) risk.Config {
	rc := s.cfg.Risk
	return risk.Config{
		CurveShock: rc.CurveShock,
		VolShock:   rc.VolShock,
		SpotShock:  rc.SpotShock,
		Curves:     rc.Curves,
		Vols:       rc.Vols,
		Spots:      rc.Spots,
		Workers:    rc.Workers,
	}
}

func openJournals(reportPath string, delim rune, dbPath string) (journal.Journal, error) {
	report, err := journal.NewCSV(reportPath, delim)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	if dbPath == "" {
		return report, nil
	}

	db, err := journal.NewSQLite(dbPath)
	if err != nil {
		report.Close()
		return nil, fmt.Errorf("open db: %w", err)
	}
	return journal.Multi{report, db}, nil
}

func printSummary(out io.Writer, run journal.RunRecord, results []journal.ResultRecord) {
	fmt.Fprintf(out, "Run %s as of %s\n\n", run.RunID, run.ValuationDate)
	fmt.Fprintf(out, "%-4s %-10s %-24s %16s %14s %14s %14s  %s\n",
		"#", "TRADE", "LABEL", "PV", "DV01", "VEGA", "DELTA", "STATUS")
	for _, r := range results {
		if r.Failed() {
			fmt.Fprintf(out, "%-4d %-10s %-24s %16s %14s %14s %14s  %s: %s\n",
				r.Seq, r.TradeID, r.Label, "-", "-", "-", "-", r.Status, r.Error)
			continue
		}
		fmt.Fprintf(out, "%-4d %-10s %-24s %16.2f %14.4f %14.4f %14.4f  %s\n",
			r.Seq, r.TradeID, r.Label, r.PV, r.DV01, r.Vega, r.Delta, r.Status)
	}
	fmt.Fprintf(out, "\nTrades: %d  Failed: %d  Total PV: %.2f  Elapsed: %s\n",
		run.Trades, run.Failed, run.TotalPV, run.Elapsed.Round(time.Millisecond))
}

