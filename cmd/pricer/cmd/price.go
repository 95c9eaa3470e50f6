package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/pricer/instrument"
)

var priceCmd = &cobra.Command{
	Use:   "price <trade-id>",
	Short: "Price a single trade from the trades file",
	Long: `Price one trade and print its PV. European options also show the
closed-form Black-Scholes value with the same rate and vol for comparison.

Example:
  pricer price 4 -c pricer.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
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

	pv, err := in.Pv(snap)
	if err != nil {
		return fmt.Errorf("price %s: %w", in.ID(), err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Trade:      %s (%s)\n", in.ID(), instrument.Label(in))
	fmt.Fprintf(out, "Notional:   %.2f\n", in.Notional())
	fmt.Fprintf(out, "As of:      %s\n", snap.AsOf)
	fmt.Fprintf(out, "PV:         %.6f\n", pv)

	switch x := in.(type) {
	case *instrument.EuropeanOption:
		black, err := x.BlackPv(snap)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Black PV:   %.6f (tree - black = %.6f, %d steps)\n", black, pv-black, x.Steps())
	case *instrument.Swap:
		par, err := x.ParRate(snap)
		if err != nil {
			return err
		}
		annuity, err := x.Annuity(snap)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Par rate:   %.6f%%\n", par*100)
		fmt.Fprintf(out, "Annuity:    %.2f\n", annuity)
	}
	return nil
}
