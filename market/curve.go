package market

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rustyeddy/pricer/date"
	"github.com/rustyeddy/pricer/errs"
)

// Point is a single tenor node of a curve.
type Point struct {
	Tenor date.Date
	Value float64
}

// termStructure is the shared storage behind rate and vol curves: tenors
// kept strictly increasing, values linearly interpolated on the serial axis.
type termStructure struct {
	points []Point
}

func (ts *termStructure) add(tenor date.Date, v float64) error {
	i := sort.Search(len(ts.points), func(i int) bool {
		return ts.points[i].Tenor >= tenor
	})
	if i < len(ts.points) && ts.points[i].Tenor == tenor {
		return fmt.Errorf("duplicate tenor %s: %w", tenor, errs.ErrInvalidInput)
	}
	ts.points = append(ts.points, Point{})
	copy(ts.points[i+1:], ts.points[i:])
	ts.points[i] = Point{Tenor: tenor, Value: v}
	return nil
}

func (ts *termStructure) at(d date.Date) (float64, bool) {
	n := len(ts.points)
	if n == 0 {
		return 0, false
	}

	// first tenor >= d
	i := sort.Search(n, func(i int) bool {
		return ts.points[i].Tenor >= d
	})
	if i == n {
		return ts.points[n-1].Value, true
	}
	if i == 0 || ts.points[i].Tenor == d {
		return ts.points[i].Value, true
	}

	p0, p1 := ts.points[i-1], ts.points[i]
	x0, x1, x := float64(p0.Tenor), float64(p1.Tenor), float64(d)
	return p0.Value + (x-x0)*(p1.Value-p0.Value)/(x1-x0), true
}

func (ts *termStructure) shift(v float64) {
	for i := range ts.points {
		ts.points[i].Value += v
	}
}

func (ts termStructure) clone() termStructure {
	return termStructure{points: append([]Point(nil), ts.points...)}
}

func (ts *termStructure) describe(b *strings.Builder, kind, name string) {
	fmt.Fprintf(b, "%s curve: %s\n", kind, name)
	for _, p := range ts.points {
		fmt.Fprintf(b, "  %s: %.6f\n", p.Tenor, p.Value)
	}
}

// RateCurve is a zero curve of continuously compounded rates.
type RateCurve struct {
	Name string
	AsOf date.Date
	termStructure
}

// NewRateCurve returns an empty curve anchored at asOf.
func NewRateCurve(name string, asOf date.Date) *RateCurve {
	return &RateCurve{Name: name, AsOf: asOf}
}

// Add inserts a tenor node. Adding a tenor twice is an error.
func (c *RateCurve) Add(tenor date.Date, rate float64) error {
	if err := c.add(tenor, rate); err != nil {
		return fmt.Errorf("rate curve %s: %w", c.Name, err)
	}
	return nil
}

// Rate returns the interpolated zero rate at d, clamped at both ends.
func (c *RateCurve) Rate(d date.Date) (float64, error) {
	r, ok := c.at(d)
	if !ok {
		return 0, fmt.Errorf("rate curve %s has no points: %w", c.Name, errs.ErrLookup)
	}
	return r, nil
}

// DiscountFactor returns exp(-r*t) with t measured ACT/365F from AsOf.
func (c *RateCurve) DiscountFactor(d date.Date) (float64, error) {
	r, err := c.Rate(d)
	if err != nil {
		return 0, err
	}
	t := date.YearFraction(c.AsOf, d, date.Act365F)
	return math.Exp(-r * t), nil
}

// Points returns a copy of the curve nodes.
func (c *RateCurve) Points() []Point {
	return append([]Point(nil), c.points...)
}

// Shift adds v to every rate. Only shocked copies should be shifted.
func (c *RateCurve) Shift(v float64) { c.shift(v) }

// Clone returns an independent copy.
func (c *RateCurve) Clone() *RateCurve {
	return &RateCurve{Name: c.Name, AsOf: c.AsOf, termStructure: c.clone()}
}

// VolCurve is an at-the-money lognormal vol term structure (no smile).
type VolCurve struct {
	Name string
	AsOf date.Date
	termStructure
}

func NewVolCurve(name string, asOf date.Date) *VolCurve {
	return &VolCurve{Name: name, AsOf: asOf}
}

func (c *VolCurve) Add(tenor date.Date, vol float64) error {
	if err := c.add(tenor, vol); err != nil {
		return fmt.Errorf("vol curve %s: %w", c.Name, err)
	}
	return nil
}

// Vol returns the interpolated vol at d, clamped at both ends.
func (c *VolCurve) Vol(d date.Date) (float64, error) {
	v, ok := c.at(d)
	if !ok {
		return 0, fmt.Errorf("vol curve %s has no points: %w", c.Name, errs.ErrLookup)
	}
	return v, nil
}

func (c *VolCurve) Points() []Point {
	return append([]Point(nil), c.points...)
}

func (c *VolCurve) Shift(v float64) { c.shift(v) }

func (c *VolCurve) Clone() *VolCurve {
	return &VolCurve{Name: c.Name, AsOf: c.AsOf, termStructure: c.clone()}
}
