package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/pricer/instrument"
	"github.com/rustyeddy/pricer/risk"
)

var riskCmd = &cobra.Command{
	Use:   "risk <trade-id>",
	Short: "Show per-factor sensitivities of a single trade",
	Long: `Bump every configured curve, vol curve and spot and print the resulting
sensitivity of one trade, factor by factor.

Kinds:
  dv01   - central difference over rate curve shocks
  vega   - central difference over vol curve shocks
  price  - one-sided spot bump
  all    - all of the above

Example:
  pricer risk 2 --kind dv01 --sequential`,
	Args: cobra.ExactArgs(1),
	RunE: runRisk,
}

var (
	riskKind       string
	riskSequential bool
)

func init() {
	rootCmd.AddCommand(riskCmd)

	riskCmd.Flags().StringVarP(&riskKind, "kind", "k", "all", "dv01, vega, price or all")
	riskCmd.Flags().BoolVar(&riskSequential, "sequential", false, "run factors one after another instead of on the pool")
}

func runRisk(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	snap, err := s.market()
	if err != nil {
		return err
	}
	in, err := s.trade(args[0])
	if err != nil {
		return err
	}
	engine, err := risk.NewEngine(snap, riskConfig(s), risk.WithLogger(s.log))
	if err != nil {
		return err
	}

	kinds := []risk.Kind{risk.KindDV01, risk.KindVega, risk.KindPrice}
	if k := strings.ToLower(riskKind); k != "all" {
		kinds = []risk.Kind{risk.Kind(k)}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Trade %s (%s) as of %s\n", in.ID(), instrument.Label(in), snap.AsOf)
	for _, kind := range kinds {
		res, err := engine.ComputeRisk(cmd.Context(), kind, in, !riskSequential)
		if err != nil {
			return err
		}

		factors := make([]string, 0, len(res))
		for f := range res {
			factors = append(factors, f)
		}
		sort.Strings(factors)

		fmt.Fprintf(out, "\n%s\n", strings.ToUpper(string(kind)))
		if len(factors) == 0 {
			fmt.Fprintln(out, "  (no factors)")
			continue
		}
		total := 0.0
		for _, f := range factors {
			fmt.Fprintf(out, "  %-20s %16.6f\n", f, res[f])
			total += res[f]
		}
		fmt.Fprintf(out, "  %-20s %16.6f\n", "total", total)
	}
	return nil
}
