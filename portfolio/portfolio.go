// Package portfolio holds the trades of a run and evaluates PV and risk
// for each of them.
package portfolio

import (
	"fmt"

	"github.com/rustyeddy/pricer/errs"
	"github.com/rustyeddy/pricer/instrument"
)

// Portfolio is an ordered set of instruments with unique trade ids.
type Portfolio struct {
	trades []instrument.Instrument
	byID   map[string]int
}

func New(trades []instrument.Instrument) (*Portfolio, error) {
	p := &Portfolio{byID: make(map[string]int, len(trades))}
	for _, in := range trades {
		if err := p.Add(in); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Add appends in. A repeated trade id fails with errs.ErrInvalidInput.
func (p *Portfolio) Add(in instrument.Instrument) error {
	if _, dup := p.byID[in.ID()]; dup {
		return fmt.Errorf("trade %q already in portfolio: %w", in.ID(), errs.ErrInvalidInput)
	}
	p.byID[in.ID()] = len(p.trades)
	p.trades = append(p.trades, in)
	return nil
}

func (p *Portfolio) Len() int { return len(p.trades) }

// Trades returns the instruments in insertion order.
func (p *Portfolio) Trades() []instrument.Instrument {
	out := make([]instrument.Instrument, len(p.trades))
	copy(out, p.trades)
	return out
}

// Get looks a trade up by id.
func (p *Portfolio) Get(id string) (instrument.Instrument, error) {
	i, ok := p.byID[id]
	if !ok {
		return nil, fmt.Errorf("trade %q not found: %w", id, errs.ErrLookup)
	}
	return p.trades[i], nil
}
