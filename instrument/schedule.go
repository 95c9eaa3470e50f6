package instrument

import (
	"fmt"

	"github.com/rustyeddy/pricer/date"
	"github.com/rustyeddy/pricer/errs"
)

// Schedule returns the period boundaries from start to maturity. Dates are
// rolled from start (not from the previous date) so month ends stick, and
// the last date is always maturity. freq is a year fraction in (0, 1].
func Schedule(start, maturity date.Date, freq float64) ([]date.Date, error) {
	if !maturity.After(start) {
		return nil, fmt.Errorf("maturity %s not after start %s: %w", maturity, start, errs.ErrInvalidInput)
	}
	if freq <= 0 || freq > 1 {
		return nil, fmt.Errorf("frequency %g outside (0,1]: %w", freq, errs.ErrInvalidInput)
	}

	months := date.FrequencyMonths(freq)
	var out []date.Date
	for k := 0; ; k++ {
		d := start.AddMonths(k * months)
		if !d.Before(maturity) {
			break
		}
		out = append(out, d)
	}
	return append(out, maturity), nil
}
