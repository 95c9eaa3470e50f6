package instrument

import (
	"fmt"
	"math"
	"strings"

	"github.com/rustyeddy/pricer/date"
	"github.com/rustyeddy/pricer/errs"
	"github.com/rustyeddy/pricer/lattice"
	"github.com/rustyeddy/pricer/market"
)

// OptionType is call, put or none.
type OptionType int

const (
	OptionNone OptionType = iota
	OptionCall
	OptionPut
)

func (t OptionType) String() string {
	switch t {
	case OptionCall:
		return "call"
	case OptionPut:
		return "put"
	default:
		return "none"
	}
}

// ParseOptionType accepts "call", "put" and treats anything else as none.
func ParseOptionType(s string) OptionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call":
		return OptionCall
	case "put":
		return OptionPut
	default:
		return OptionNone
	}
}

// VanillaPayoff is max(S-K,0) for calls, max(K-S,0) for puts and zero
// otherwise.
func VanillaPayoff(t OptionType, strike, s float64) float64 {
	switch t {
	case OptionCall:
		return math.Max(s-strike, 0)
	case OptionPut:
		return math.Max(strike-s, 0)
	default:
		return 0
	}
}

// CallSpreadPayoff is a long k1 call, short k2 call: max(min(S-k1, k2-k1), 0).
func CallSpreadPayoff(k1, k2, s float64) float64 {
	return math.Max(math.Min(s-k1, k2-k1), 0)
}

// OptionTerms are the tree-priced contract terms shared by all option
// variants.
type OptionTerms struct {
	Expiry date.Date
	Vol    string // vol curve name
	Steps  int    // lattice depth; zero means lattice.DefaultSteps
}

// option carries what every tree-priced variant needs to satisfy
// lattice.Product.
type option struct {
	base
	terms OptionTerms
}

func newOption(c Common, t OptionTerms) (option, error) {
	b, err := newBase(c)
	if err != nil {
		return option{}, err
	}
	if t.Vol == "" {
		return option{}, fmt.Errorf("trade %s: vol curve is required: %w", c.TradeID, errs.ErrInvalidInput)
	}
	if t.Steps == 0 {
		t.Steps = lattice.DefaultSteps
	}
	if t.Steps < 1 {
		return option{}, fmt.Errorf("trade %s: steps must be >= 1: %w", c.TradeID, errs.ErrInvalidInput)
	}
	return option{base: b, terms: t}, nil
}

func (o option) Expiry() date.Date { return o.terms.Expiry }
func (o option) VolCurve() string  { return o.terms.Vol }
func (o option) Steps() int        { return o.terms.Steps }

// European exercises only at expiry.
func (option) europeanNode(_, _, continuation float64) float64 {
	return continuation
}

// American takes the better of exercising now and holding.
func americanNode(payoff, continuation float64) float64 {
	return math.Max(payoff, continuation)
}

// EuropeanOption is a vanilla option exercisable at expiry.
type EuropeanOption struct {
	option
	Type   OptionType
	Strike float64
}

func NewEuropeanOption(c Common, t OptionTerms, typ OptionType, strike float64) (*EuropeanOption, error) {
	o, err := newOption(c, t)
	if err != nil {
		return nil, err
	}
	return &EuropeanOption{option: o, Type: typ, Strike: strike}, nil
}

func (*EuropeanOption) Kind() Kind { return KindEuropean }

func (e *EuropeanOption) Payoff(s float64) float64 {
	return VanillaPayoff(e.Type, e.Strike, s)
}

func (e *EuropeanOption) ValueAtNode(s, t, cont float64) float64 {
	return e.europeanNode(s, t, cont)
}

func (e *EuropeanOption) Pv(mkt *market.Snapshot) (float64, error) {
	return lattice.NewPricer(e.Steps()).Price(mkt, e)
}

// BlackPv is the closed-form Black-Scholes value with the same flat rate
// and vol the tree uses.
func (e *EuropeanOption) BlackPv(mkt *market.Snapshot) (float64, error) {
	if e.Type == OptionNone {
		return 0, nil
	}
	p, err := lattice.Resolve(mkt, e, 1)
	if err != nil {
		return 0, err
	}
	v := lattice.BlackScholes(e.Type == OptionCall, p.Spot, e.Strike, p.Rate, p.Vol, p.T)
	return v * e.Notional(), nil
}

// AmericanOption is a vanilla option exercisable at any tree node.
type AmericanOption struct {
	option
	Type   OptionType
	Strike float64
}

func NewAmericanOption(c Common, t OptionTerms, typ OptionType, strike float64) (*AmericanOption, error) {
	o, err := newOption(c, t)
	if err != nil {
		return nil, err
	}
	return &AmericanOption{option: o, Type: typ, Strike: strike}, nil
}

func (*AmericanOption) Kind() Kind { return KindAmerican }

func (a *AmericanOption) Payoff(s float64) float64 {
	return VanillaPayoff(a.Type, a.Strike, s)
}

func (a *AmericanOption) ValueAtNode(s, _, cont float64) float64 {
	return americanNode(a.Payoff(s), cont)
}

func (a *AmericanOption) Pv(mkt *market.Snapshot) (float64, error) {
	return lattice.NewPricer(a.Steps()).Price(mkt, a)
}

// callSpread holds the two strikes, low < high.
type callSpread struct {
	option
	Low, High float64
}

func newCallSpread(c Common, t OptionTerms, k1, k2 float64) (callSpread, error) {
	if !(k1 < k2) {
		return callSpread{}, fmt.Errorf("trade %s: call spread needs k1 < k2, got %g/%g: %w",
			c.TradeID, k1, k2, errs.ErrInvalidInput)
	}
	o, err := newOption(c, t)
	if err != nil {
		return callSpread{}, err
	}
	return callSpread{option: o, Low: k1, High: k2}, nil
}

func (cs callSpread) Payoff(s float64) float64 {
	return CallSpreadPayoff(cs.Low, cs.High, s)
}

// EuroCallSpread is a European call spread.
type EuroCallSpread struct {
	callSpread
}

func NewEuroCallSpread(c Common, t OptionTerms, k1, k2 float64) (*EuroCallSpread, error) {
	cs, err := newCallSpread(c, t, k1, k2)
	if err != nil {
		return nil, err
	}
	return &EuroCallSpread{callSpread: cs}, nil
}

func (*EuroCallSpread) Kind() Kind { return KindEuroCallSpread }

func (e *EuroCallSpread) ValueAtNode(s, t, cont float64) float64 {
	return e.europeanNode(s, t, cont)
}

func (e *EuroCallSpread) Pv(mkt *market.Snapshot) (float64, error) {
	return lattice.NewPricer(e.Steps()).Price(mkt, e)
}

// AmerCallSpread is a call spread exercisable at any tree node.
type AmerCallSpread struct {
	callSpread
}

func NewAmerCallSpread(c Common, t OptionTerms, k1, k2 float64) (*AmerCallSpread, error) {
	cs, err := newCallSpread(c, t, k1, k2)
	if err != nil {
		return nil, err
	}
	return &AmerCallSpread{callSpread: cs}, nil
}

func (*AmerCallSpread) Kind() Kind { return KindAmerCallSpread }

func (a *AmerCallSpread) ValueAtNode(s, _, cont float64) float64 {
	return americanNode(a.Payoff(s), cont)
}

func (a *AmerCallSpread) Pv(mkt *market.Snapshot) (float64, error) {
	return lattice.NewPricer(a.Steps()).Price(mkt, a)
}

var (
	_ Instrument      = (*Bond)(nil)
	_ Instrument      = (*Swap)(nil)
	_ Instrument      = (*EuropeanOption)(nil)
	_ Instrument      = (*AmericanOption)(nil)
	_ Instrument      = (*EuroCallSpread)(nil)
	_ Instrument      = (*AmerCallSpread)(nil)
	_ lattice.Product = (*EuropeanOption)(nil)
	_ lattice.Product = (*AmericanOption)(nil)
	_ lattice.Product = (*EuroCallSpread)(nil)
	_ lattice.Product = (*AmerCallSpread)(nil)
)
