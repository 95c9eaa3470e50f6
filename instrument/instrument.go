// Package instrument defines the tradable products the pricer values.
//
// The set of variants is closed: Instrument carries an unexported method so
// only this package can add new kinds, and every switch over Kind is
// exhaustive.
package instrument

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/pricer/date"
	"github.com/rustyeddy/pricer/errs"
	"github.com/rustyeddy/pricer/market"
)

// Kind tags an instrument variant.
type Kind int

const (
	KindBond Kind = iota
	KindSwap
	KindEuropean
	KindAmerican
	KindEuroCallSpread
	KindAmerCallSpread
)

var kindNames = map[Kind]string{
	KindBond:           "bond",
	KindSwap:           "swap",
	KindEuropean:       "european",
	KindAmerican:       "american",
	KindEuroCallSpread: "eurocallspread",
	KindAmerCallSpread: "amercallspread",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a trade-file type tag to a Kind.
func ParseKind(s string) (Kind, error) {
	tag := strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == tag {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown trade type %q: %w", s, errs.ErrConfiguration)
}

// IsOption reports whether instruments of this kind are priced on the tree.
func (k Kind) IsOption() bool {
	switch k {
	case KindEuropean, KindAmerican, KindEuroCallSpread, KindAmerCallSpread:
		return true
	case KindBond, KindSwap:
		return false
	}
	return false
}

// Instrument is the valuation capability shared by every variant.
type Instrument interface {
	ID() string
	Kind() Kind
	Underlying() string
	Notional() float64
	TradeDate() date.Date

	// Payoff is the value at underlying level s.
	Payoff(s float64) float64

	// Pv is the present value against mkt. Missing market data fails
	// with errs.ErrLookup.
	Pv(mkt *market.Snapshot) (float64, error)

	sealed()
}

// Label renders "type underlying" for reports.
func Label(in Instrument) string {
	return in.Kind().String() + " " + in.Underlying()
}

// Common holds the attributes every trade carries.
type Common struct {
	TradeID      string
	UnderlyingID string
	Amount       float64 // signed notional
	Traded       date.Date
	Curve        string // discounting / drift rate curve
}

// base implements the shared accessors of Instrument.
type base struct {
	c Common
}

func newBase(c Common) (base, error) {
	if strings.TrimSpace(c.UnderlyingID) == "" {
		return base{}, fmt.Errorf("trade %s: underlying is required: %w", c.TradeID, errs.ErrInvalidInput)
	}
	if c.Curve == "" {
		return base{}, fmt.Errorf("trade %s: rate curve is required: %w", c.TradeID, errs.ErrInvalidInput)
	}
	c.UnderlyingID = strings.ToUpper(strings.TrimSpace(c.UnderlyingID))
	return base{c: c}, nil
}

func (b base) ID() string           { return b.c.TradeID }
func (b base) Underlying() string   { return b.c.UnderlyingID }
func (b base) Notional() float64    { return b.c.Amount }
func (b base) TradeDate() date.Date { return b.c.Traded }
func (b base) RateCurve() string    { return b.c.Curve }
func (base) sealed()                {}
