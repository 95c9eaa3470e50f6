package instrument

import (
	"fmt"
	"math"

	"github.com/rustyeddy/pricer/date"
	"github.com/rustyeddy/pricer/market"
)

// Bond is a fixed-coupon bullet bond.
type Bond struct {
	base
	Start      date.Date
	Maturity   date.Date
	Coupon     float64 // annual rate, decimal
	Frequency  float64 // coupon period as a year fraction
	TradePrice float64

	schedule []date.Date
}

// NewBond validates the terms and builds the coupon schedule.
func NewBond(c Common, start, maturity date.Date, coupon, freq float64) (*Bond, error) {
	b, err := newBase(c)
	if err != nil {
		return nil, err
	}
	sched, err := Schedule(start, maturity, freq)
	if err != nil {
		return nil, fmt.Errorf("bond %s: %w", c.TradeID, err)
	}
	return &Bond{
		base:      b,
		Start:     start,
		Maturity:  maturity,
		Coupon:    coupon,
		Frequency: freq,
		schedule:  sched,
	}, nil
}

func (*Bond) Kind() Kind { return KindBond }

// Schedule returns a copy of the coupon dates, start first.
func (b *Bond) Schedule() []date.Date {
	return append([]date.Date(nil), b.schedule...)
}

// Payoff is the P/L against the trade price at bond price s.
func (b *Bond) Payoff(s float64) float64 {
	return b.Notional() * (s - b.TradePrice)
}

// Pv discounts coupons and principal on the bond's curve, ACT/360.
// Cash flows before the valuation date are ignored.
func (b *Bond) Pv(mkt *market.Snapshot) (float64, error) {
	rc, err := mkt.Curve(b.RateCurve())
	if err != nil {
		return 0, err
	}

	df := func(d date.Date) (float64, error) {
		r, err := rc.Rate(d)
		if err != nil {
			return 0, err
		}
		return math.Exp(-r * date.YearFraction(mkt.AsOf, d, date.Act360)), nil
	}

	n := b.Notional()
	pv := 0.0
	for i := 1; i < len(b.schedule); i++ {
		pay := b.schedule[i]
		if pay.Before(mkt.AsOf) {
			continue
		}
		tau := date.YearFraction(b.schedule[i-1], pay, date.Act360)
		f, err := df(pay)
		if err != nil {
			return 0, err
		}
		pv += b.Coupon * n * tau * f
	}

	if !b.Maturity.Before(mkt.AsOf) {
		f, err := df(b.Maturity)
		if err != nil {
			return 0, err
		}
		pv += n * f
	}
	return pv, nil
}
