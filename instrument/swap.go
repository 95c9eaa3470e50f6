package instrument

import (
	"fmt"
	"math"

	"github.com/rustyeddy/pricer/date"
	"github.com/rustyeddy/pricer/errs"
	"github.com/rustyeddy/pricer/market"
)

// Swap is a fixed/floating interest-rate swap valued by leg discounting.
// A positive notional pays fixed and receives floating; negative receives
// fixed.
type Swap struct {
	base
	Start     date.Date
	Maturity  date.Date
	FixedRate float64
	Frequency float64

	schedule []date.Date
}

func NewSwap(c Common, start, maturity date.Date, fixedRate, freq float64) (*Swap, error) {
	b, err := newBase(c)
	if err != nil {
		return nil, err
	}
	sched, err := Schedule(start, maturity, freq)
	if err != nil {
		return nil, fmt.Errorf("swap %s: %w", c.TradeID, err)
	}
	return &Swap{
		base:      b,
		Start:     start,
		Maturity:  maturity,
		FixedRate: fixedRate,
		Frequency: freq,
		schedule:  sched,
	}, nil
}

func (*Swap) Kind() Kind { return KindSwap }

func (s *Swap) Schedule() []date.Date {
	return append([]date.Date(nil), s.schedule...)
}

// Payoff is the carry of the fixed rate against a floating fixing r. It is
// not used for valuation.
func (s *Swap) Payoff(r float64) float64 {
	return (r - s.FixedRate) * s.Notional()
}

// Legs returns the PV of the fixed and floating legs on |notional|.
func (s *Swap) Legs(mkt *market.Snapshot) (fixed, floating float64, err error) {
	rc, err := mkt.Curve(s.RateCurve())
	if err != nil {
		return 0, 0, err
	}
	unit, err := s.fixedLegUnit(mkt, rc)
	if err != nil {
		return 0, 0, err
	}
	floating, err = s.floatingLeg(mkt, rc)
	if err != nil {
		return 0, 0, err
	}
	return s.FixedRate * unit, floating, nil
}

// fixedLegUnit is the fixed leg PV per unit of fixed rate: ACT/365F
// accrual, curve discount factors.
func (s *Swap) fixedLegUnit(mkt *market.Snapshot, rc *market.RateCurve) (float64, error) {
	abs := math.Abs(s.Notional())
	unit := 0.0
	for i := 1; i < len(s.schedule); i++ {
		pay := s.schedule[i]
		if pay.Before(mkt.AsOf) {
			continue
		}
		tau := date.YearFraction(s.schedule[i-1], pay, date.Act365F)
		df, err := rc.DiscountFactor(pay)
		if err != nil {
			return 0, err
		}
		unit += abs * tau * df
	}
	return unit, nil
}

// floatingLeg uses the par-floater identity N*(DF(start) - DF(end)), with
// DF(start) = 1 once the swap has started.
func (s *Swap) floatingLeg(mkt *market.Snapshot, rc *market.RateCurve) (float64, error) {
	if s.Maturity.Before(mkt.AsOf) {
		return 0, nil
	}
	dfStart := 1.0
	if !s.Start.Before(mkt.AsOf) {
		var err error
		if dfStart, err = rc.DiscountFactor(s.Start); err != nil {
			return 0, err
		}
	}
	dfEnd, err := rc.DiscountFactor(s.Maturity)
	if err != nil {
		return 0, err
	}
	return math.Abs(s.Notional()) * (dfStart - dfEnd), nil
}

func (s *Swap) Pv(mkt *market.Snapshot) (float64, error) {
	fixed, floating, err := s.Legs(mkt)
	if err != nil {
		return 0, err
	}
	if s.Notional() > 0 {
		return floating - fixed, nil
	}
	return fixed - floating, nil
}

// Annuity is the PV of one unit of fixed rate on the remaining periods,
// ACT/360 accrual, scaled by |notional|.
func (s *Swap) Annuity(mkt *market.Snapshot) (float64, error) {
	rc, err := mkt.Curve(s.RateCurve())
	if err != nil {
		return 0, err
	}
	abs := math.Abs(s.Notional())
	annuity := 0.0
	for i := 1; i < len(s.schedule); i++ {
		pay := s.schedule[i]
		if pay.Before(mkt.AsOf) {
			continue
		}
		tau := date.YearFraction(s.schedule[i-1], pay, date.Act360)
		r, err := rc.Rate(pay)
		if err != nil {
			return 0, err
		}
		annuity += abs * tau * math.Exp(-r*date.YearFraction(mkt.AsOf, pay, date.Act360))
	}
	return annuity, nil
}

// ParRate is the fixed rate that sets the swap PV to zero.
func (s *Swap) ParRate(mkt *market.Snapshot) (float64, error) {
	rc, err := mkt.Curve(s.RateCurve())
	if err != nil {
		return 0, err
	}
	unit, err := s.fixedLegUnit(mkt, rc)
	if err != nil {
		return 0, err
	}
	if unit == 0 {
		return 0, fmt.Errorf("swap %s has no remaining fixed periods: %w", s.ID(), errs.ErrInvalidInput)
	}
	floating, err := s.floatingLeg(mkt, rc)
	if err != nil {
		return 0, err
	}
	return floating / unit, nil
}
