// Package errs holds the error kinds shared by every pricing component.
//
// Callers wrap one of the sentinels with context and match with errors.Is:
//
//	return fmt.Errorf("curve %q: %w", name, errs.ErrLookup)
package errs

import "errors"

var (
	// ErrConfiguration covers malformed trade/curve rows, unsupported tenor
	// units and unparseable dates. Raised at load time.
	ErrConfiguration = errors.New("configuration error")

	// ErrLookup is returned when a curve, vol curve or spot required by an
	// instrument is missing from the market snapshot.
	ErrLookup = errors.New("lookup error")

	// ErrInvalidInput covers non-positive step counts, non-monotonic
	// schedules and expiries that are not after the valuation date.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNumerical is returned when the lattice parameterisation degenerates,
	// e.g. a risk-neutral probability outside [0,1].
	ErrNumerical = errors.New("numerical error")
)

// Kind returns a short label for the sentinel wrapped by err, or "error"
// when err carries none of them.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrLookup):
		return "lookup"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNumerical):
		return "numerical"
	default:
		return "error"
	}
}
