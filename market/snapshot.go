// Package market holds the market data a valuation runs against: zero
// curves, vol curves and spot prices as of a valuation date, plus the
// shocks used to build bumped copies for risk.
package market

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rustyeddy/pricer/date"
	"github.com/rustyeddy/pricer/errs"
)

// Snapshot is the market state for one scenario. A snapshot is populated
// once and then only read; scenarios are built from deep copies.
type Snapshot struct {
	AsOf date.Date

	curves map[string]*RateCurve
	vols   map[string]*VolCurve
	spots  map[string]float64
}

// NewSnapshot returns an empty snapshot for the valuation date.
func NewSnapshot(asOf date.Date) *Snapshot {
	return &Snapshot{
		AsOf:   asOf,
		curves: make(map[string]*RateCurve),
		vols:   make(map[string]*VolCurve),
		spots:  make(map[string]float64),
	}
}

// AddCurve registers a rate curve under name, replacing any previous one.
func (s *Snapshot) AddCurve(name string, c *RateCurve) {
	s.curves[name] = c
}

func (s *Snapshot) AddVolCurve(name string, v *VolCurve) {
	s.vols[name] = v
}

// AddSpot sets the spot price for ticker. Tickers are case-insensitive.
func (s *Snapshot) AddSpot(ticker string, price float64) {
	s.spots[strings.ToUpper(ticker)] = price
}

// Curve looks up a rate curve.
func (s *Snapshot) Curve(name string) (*RateCurve, error) {
	c, ok := s.curves[name]
	if !ok {
		return nil, fmt.Errorf("rate curve %q not found: %w", name, errs.ErrLookup)
	}
	return c, nil
}

// VolCurve looks up a vol curve.
func (s *Snapshot) VolCurve(name string) (*VolCurve, error) {
	v, ok := s.vols[name]
	if !ok {
		return nil, fmt.Errorf("vol curve %q not found: %w", name, errs.ErrLookup)
	}
	return v, nil
}

// Spot looks up the spot price of ticker.
func (s *Snapshot) Spot(ticker string) (float64, error) {
	p, ok := s.spots[strings.ToUpper(ticker)]
	if !ok {
		return 0, fmt.Errorf("spot %q not found: %w", ticker, errs.ErrLookup)
	}
	return p, nil
}

// CurveNames returns the registered rate curve names, sorted.
func (s *Snapshot) CurveNames() []string { return sortedKeys(s.curves) }

// VolNames returns the registered vol curve names, sorted.
func (s *Snapshot) VolNames() []string { return sortedKeys(s.vols) }

// Tickers returns the tickers with a spot price, sorted.
func (s *Snapshot) Tickers() []string { return sortedKeys(s.spots) }

// Clone returns a deep copy: curves are duplicated, so shifting a curve in
// the copy leaves s untouched.
func (s *Snapshot) Clone() *Snapshot {
	out := NewSnapshot(s.AsOf)
	for k, c := range s.curves {
		out.curves[k] = c.Clone()
	}
	for k, v := range s.vols {
		out.vols[k] = v.Clone()
	}
	for k, p := range s.spots {
		out.spots[k] = p
	}
	return out
}

// Describe renders the snapshot contents for diagnostics.
func (s *Snapshot) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "market as of %s\n", s.AsOf)
	for _, name := range s.CurveNames() {
		s.curves[name].describe(&b, "rate", name)
	}
	for _, name := range s.VolNames() {
		s.vols[name].describe(&b, "vol", name)
	}
	for _, t := range s.Tickers() {
		fmt.Fprintf(&b, "spot %s: %.6f\n", t, s.spots[t])
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
