package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/pricer/date"
)

var curveCmd = &cobra.Command{
	Use:   "curve <name> [YYYY-MM-DD | tenor ...]",
	Short: "Print interpolated values of a rate or vol curve",
	Long: `Look up a curve from the configured market. Rate curves print the zero
rate and discount factor, vol curves the vol. Without dates every stored
tenor is printed. Dates may also be tenors rolled from the valuation date.

Examples:
  pricer curve USD-SOFR 2026-01-01 18M
  pricer curve LOGVOL`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCurve,
}

func init() {
	rootCmd.AddCommand(curveCmd)
}

func runCurve(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	snap, err := s.market()
	if err != nil {
		return err
	}

	name := args[0]
	var dates []date.Date
	for _, a := range args[1:] {
		d, err := date.Parse(a)
		if err != nil {
			d, err = snap.AsOf.AddTenor(a)
			if err != nil {
				return fmt.Errorf("%q is neither a date nor a tenor: %w", a, err)
			}
		}
		dates = append(dates, d)
	}

	out := cmd.OutOrStdout()
	if rc, err := snap.Curve(name); err == nil {
		if len(dates) == 0 {
			for _, p := range rc.Points() {
				dates = append(dates, p.Tenor)
			}
		}
		fmt.Fprintf(out, "%s (rate curve, as of %s)\n", name, rc.AsOf)
		fmt.Fprintf(out, "  %-10s %6s %10s %12s\n", "DATE", "DAYS", "RATE%", "DF")
		for _, d := range dates {
			r, err := rc.Rate(d)
			if err != nil {
				return err
			}
			df, err := rc.DiscountFactor(d)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  %-10s %6d %10.4f %12.8f\n", d, d.Sub(rc.AsOf), r*100, df)
		}
		return nil
	}

	vc, err := snap.VolCurve(name)
	if err != nil {
		return fmt.Errorf("no rate or vol curve named %q", name)
	}
	if len(dates) == 0 {
		for _, p := range vc.Points() {
			dates = append(dates, p.Tenor)
		}
	}
	fmt.Fprintf(out, "%s (vol curve, as of %s)\n", name, vc.AsOf)
	fmt.Fprintf(out, "  %-10s %6s %10s\n", "DATE", "DAYS", "VOL%")
	for _, d := range dates {
		v, err := vc.Vol(d)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %-10s %6d %10.4f\n", d, d.Sub(vc.AsOf), v*100)
	}
	return nil
}
