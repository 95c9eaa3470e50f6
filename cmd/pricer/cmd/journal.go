package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/pricer/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query past runs from the SQLite journal",
	Long: `Query and display run records from the SQLite journal written by
"pricer run --db".

Subcommands:
  runs  - List recent runs
  show  - Show every trade result of one run

Examples:
  pricer journal runs --limit 5
  pricer journal show 01JH3Z4Q8W2V7M5K0N6P1R9S3T`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run and its results",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var (
	journalDBPath string
	journalLimit  int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalShowCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./pricer.sqlite", "path to SQLite journal DB")
	journalRunsCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "maximum runs to list (0 for all)")
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRuns(cmd.Context(), journalLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}
	fmt.Fprintf(out, "%-26s  %-10s  %6s  %6s  %18s\n", "RUN", "DATE", "TRADES", "FAILED", "TOTAL PV")
	for _, r := range runs {
		fmt.Fprintf(out, "%-26s  %-10s  %6d  %6d  %18s\n",
			r.RunID, r.ValuationDate, r.Trades, r.Failed, journal.FormatAmount(r.TotalPV, 2))
	}
	return nil
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	run, err := j.GetRun(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	results, err := j.ListResultsByRun(cmd.Context(), run.RunID)
	if err != nil {
		return fmt.Errorf("list results: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatRunOrg(run, results))
	return nil
}
