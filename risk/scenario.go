// Package risk computes bump-and-revalue sensitivities of an instrument to
// the rate curves, vol curves and spots of a market snapshot.
package risk

import (
	"fmt"

	"github.com/rustyeddy/pricer/market"
)

// Kind selects which family of factors ComputeRisk evaluates.
type Kind string

const (
	KindDV01  Kind = "dv01"
	KindVega  Kind = "vega"
	KindPrice Kind = "price"
)

// Factor is one risk factor: a pair of scenario snapshots built from the
// same base. For curve and vol factors Up/Down are the +/- shocked markets
// and the sensitivity is the central difference (PV(Up)-PV(Down))/2. For
// spot factors Down is the unshocked origin and the sensitivity is the
// one-sided PV(Up)-PV(Down).
type Factor struct {
	ID    string
	Kind  Kind
	Shock market.Shock
	Up    *market.Snapshot
	Down  *market.Snapshot
}

func newCentralFactor(kind Kind, base *market.Snapshot, s market.Shock) (Factor, error) {
	up, err := s.Apply(base)
	if err != nil {
		return Factor{}, err
	}
	down, err := s.Negate().Apply(base)
	if err != nil {
		return Factor{}, err
	}
	return Factor{ID: s.ID, Kind: kind, Shock: s, Up: up, Down: down}, nil
}

func newOneSidedFactor(kind Kind, base *market.Snapshot, s market.Shock) (Factor, error) {
	bumped, err := s.Apply(base)
	if err != nil {
		return Factor{}, err
	}
	return Factor{ID: s.ID, Kind: kind, Shock: s, Up: bumped, Down: base.Clone()}, nil
}

// Valuer is what the engine needs from an instrument.
type Valuer interface {
	Pv(mkt *market.Snapshot) (float64, error)
}

// sensitivity revalues v under both scenarios of f.
func (f Factor) sensitivity(v Valuer) (float64, error) {
	up, err := v.Pv(f.Up)
	if err != nil {
		return 0, fmt.Errorf("%s %s up: %w", f.Kind, f.ID, err)
	}
	down, err := v.Pv(f.Down)
	if err != nil {
		return 0, fmt.Errorf("%s %s down: %w", f.Kind, f.ID, err)
	}
	if f.Kind == KindPrice {
		return up - down, nil
	}
	return (up - down) / 2, nil
}
