package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatResultOrg renders a ResultRecord as an Org-mode block. Structured
// facts go in a PROPERTIES drawer; per-factor sensitivities become a table.
func FormatResultOrg(r ResultRecord) string {
	heading := fmt.Sprintf("** %d. %s (%s)", r.Seq, r.Label, r.TradeID)
	if r.Failed() {
		heading += " :error:"
	}

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":TRADE_ID: %s\n", r.TradeID))
	b.WriteString(fmt.Sprintf(":KIND: %s\n", r.Kind))
	b.WriteString(fmt.Sprintf(":UNDERLYING: %s\n", r.Underlying))
	b.WriteString(fmt.Sprintf(":STATUS: %s\n", r.Status))
	if r.Failed() {
		b.WriteString(fmt.Sprintf(":ERROR: %s\n", r.Error))
	} else {
		b.WriteString(fmt.Sprintf(":PV: %.2f\n", r.PV))
		b.WriteString(fmt.Sprintf(":DV01: %.4f\n", r.DV01))
		b.WriteString(fmt.Sprintf(":VEGA: %.4f\n", r.Vega))
		b.WriteString(fmt.Sprintf(":DELTA: %.4f\n", r.Delta))
	}
	b.WriteString(":END:\n")

	if len(r.Sensitivities) > 0 {
		b.WriteString("\n")
		b.WriteString("| Kind | Factor | Value |\n")
		b.WriteString("|------+--------+-------|\n")
		for _, s := range r.Sensitivities {
			b.WriteString(fmt.Sprintf("| %s | %s | %.6f |\n", s.Kind, s.Factor, s.Value))
		}
	}
	return b.String()
}

// FormatRunOrg renders a run header followed by each of its results.
func FormatRunOrg(run RunRecord, results []ResultRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("* RUN: %s (%s)\n", run.ValuationDate, shortID(run.RunID)))
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":RUN_ID: %s\n", run.RunID))
	b.WriteString(fmt.Sprintf(":CREATED: [%s]\n", run.Created.UTC().Format("2006-01-02 Mon 15:04")))
	b.WriteString(fmt.Sprintf(":VALUATION_DATE: %s\n", run.ValuationDate))
	if run.ConfigPath != "" {
		b.WriteString(fmt.Sprintf(":CONFIG: %s\n", run.ConfigPath))
	}
	b.WriteString(fmt.Sprintf(":STEPS: %d\n", run.Steps))
	b.WriteString(fmt.Sprintf(":CURVE_SHOCK: %g\n", run.CurveShock))
	b.WriteString(fmt.Sprintf(":VOL_SHOCK: %g\n", run.VolShock))
	b.WriteString(fmt.Sprintf(":SPOT_SHOCK: %g\n", run.SpotShock))
	b.WriteString(fmt.Sprintf(":CONCURRENT: %t\n", run.Concurrent))
	b.WriteString(fmt.Sprintf(":TRADES: %d\n", run.Trades))
	b.WriteString(fmt.Sprintf(":FAILED: %d\n", run.Failed))
	b.WriteString(fmt.Sprintf(":TOTAL_PV: %.2f\n", run.TotalPV))
	b.WriteString(fmt.Sprintf(":ELAPSED: %s\n", run.Elapsed.Round(time.Millisecond)))
	b.WriteString(":END:\n")

	for _, r := range results {
		b.WriteString("\n")
		b.WriteString(FormatResultOrg(r))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
