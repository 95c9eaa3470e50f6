// Package lattice prices single-underlying options on a recombining
// Cox-Ross-Rubinstein binomial tree.
package lattice

import (
	"fmt"
	"math"

	"github.com/rustyeddy/pricer/date"
	"github.com/rustyeddy/pricer/errs"
	"github.com/rustyeddy/pricer/market"
)

// DefaultSteps is the tree depth used when an instrument does not ask for
// another one.
const DefaultSteps = 50

// Product is anything the tree can value: a payoff on one underlying plus
// an exercise rule applied at every interior node.
type Product interface {
	Underlying() string
	Notional() float64
	Expiry() date.Date
	RateCurve() string
	VolCurve() string

	// Payoff is the exercise value at underlying level s.
	Payoff(s float64) float64

	// ValueAtNode combines the discounted continuation value with the
	// exercise rule. t is the node time in years from valuation.
	ValueAtNode(s, t, continuation float64) float64
}

// Pricer is a CRR tree with a fixed number of steps. A Pricer holds no
// per-call state and is safe for concurrent use.
type Pricer struct {
	Steps int
}

func NewPricer(steps int) *Pricer {
	return &Pricer{Steps: steps}
}

// Params are the tree inputs resolved from the market for one product.
type Params struct {
	Spot  float64
	Rate  float64
	Vol   float64
	T     float64 // years to expiry, ACT/360
	Steps int
}

// Resolve looks up spot, expiry rate and expiry vol for prod. Curves are
// read once at expiry and held flat across the tree.
func Resolve(mkt *market.Snapshot, prod Product, steps int) (Params, error) {
	if steps < 1 {
		return Params{}, fmt.Errorf("steps must be >= 1, got %d: %w", steps, errs.ErrInvalidInput)
	}
	expiry := prod.Expiry()
	if !expiry.After(mkt.AsOf) {
		return Params{}, fmt.Errorf("expiry %s not after valuation date %s: %w", expiry, mkt.AsOf, errs.ErrInvalidInput)
	}

	spot, err := mkt.Spot(prod.Underlying())
	if err != nil {
		return Params{}, err
	}
	rc, err := mkt.Curve(prod.RateCurve())
	if err != nil {
		return Params{}, err
	}
	r, err := rc.Rate(expiry)
	if err != nil {
		return Params{}, err
	}
	vc, err := mkt.VolCurve(prod.VolCurve())
	if err != nil {
		return Params{}, err
	}
	vol, err := vc.Vol(expiry)
	if err != nil {
		return Params{}, err
	}

	return Params{
		Spot:  spot,
		Rate:  r,
		Vol:   vol,
		T:     date.YearFraction(mkt.AsOf, expiry, date.Act360),
		Steps: steps,
	}, nil
}

// Price values prod against mkt and scales the root value by the
// product's signed notional.
func (p *Pricer) Price(mkt *market.Snapshot, prod Product) (float64, error) {
	params, err := Resolve(mkt, prod, p.Steps)
	if err != nil {
		return 0, err
	}
	v, err := Backward(params, prod)
	if err != nil {
		return 0, err
	}
	return v * prod.Notional(), nil
}

// Backward runs backward induction for one unit of notional.
func Backward(in Params, prod Product) (float64, error) {
	if in.Steps < 1 {
		return 0, fmt.Errorf("steps must be >= 1, got %d: %w", in.Steps, errs.ErrInvalidInput)
	}
	if in.Vol < 0 || math.IsNaN(in.Vol) {
		return 0, fmt.Errorf("volatility %g is negative: %w", in.Vol, errs.ErrNumerical)
	}

	n := in.Steps
	dt := in.T / float64(n)
	disc := math.Exp(-in.Rate * dt)

	// With zero vol the tree collapses to the deterministic forward path.
	if in.Vol == 0 {
		return deterministic(in, dt, disc, prod), nil
	}

	u := math.Exp(in.Vol * math.Sqrt(dt))
	d := 1 / u
	pu := (math.Exp(in.Rate*dt) - d) / (u - d)
	if math.IsNaN(pu) || pu < 0 || pu > 1 {
		return 0, fmt.Errorf("risk-neutral probability %g outside [0,1] (vol=%g dt=%g r=%g): %w",
			pu, in.Vol, dt, in.Rate, errs.ErrNumerical)
	}
	pd := 1 - pu

	// Rolling buffers: level[i] and value[i] for node i (i up-moves) of the
	// current layer.
	level := make([]float64, n+1)
	value := make([]float64, n+1)

	u2 := u * u
	level[0] = in.Spot * math.Pow(d, float64(n))
	for i := 0; i <= n; i++ {
		if i > 0 {
			level[i] = level[i-1] * u2
		}
		value[i] = prod.Payoff(level[i])
	}

	for t := n - 1; t >= 0; t-- {
		nodeTime := float64(t) * dt
		for i := 0; i <= t; i++ {
			// node i at layer t sits one down-move above node i at layer t+1
			level[i] *= u
			cont := disc * (pu*value[i+1] + pd*value[i])
			value[i] = prod.ValueAtNode(level[i], nodeTime, cont)
		}
	}

	return value[0], nil
}

func deterministic(in Params, dt, disc float64, prod Product) float64 {
	n := in.Steps
	growth := math.Exp(in.Rate * dt)
	s := in.Spot * math.Exp(in.Rate*in.T)
	v := prod.Payoff(s)
	for t := n - 1; t >= 0; t-- {
		s /= growth
		v = prod.ValueAtNode(s, float64(t)*dt, disc*v)
	}
	return v
}
