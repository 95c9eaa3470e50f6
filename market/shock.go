package market

import (
	"fmt"
	"strings"
)

// Target selects which part of a snapshot a shock moves.
type Target int

const (
	TargetCurve Target = iota
	TargetVol
	TargetSpot
)

func (t Target) String() string {
	switch t {
	case TargetCurve:
		return "curve"
	case TargetVol:
		return "vol"
	case TargetSpot:
		return "spot"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// Shock is a parallel shift of one curve, vol curve or spot.
type Shock struct {
	ID     string
	Target Target
	Name   string
	Size   float64
}

// CurveShock shifts every rate of curve name by size.
func CurveShock(name string, size float64) Shock {
	return Shock{ID: name, Target: TargetCurve, Name: name, Size: size}
}

// VolShock shifts every vol of vol curve name by size.
func VolShock(name string, size float64) Shock {
	return Shock{ID: name, Target: TargetVol, Name: name, Size: size}
}

// SpotShock adds size to the spot of ticker.
func SpotShock(ticker string, size float64) Shock {
	t := strings.ToUpper(ticker)
	return Shock{ID: t, Target: TargetSpot, Name: t, Size: size}
}

// Negate returns the same shock in the opposite direction.
func (s Shock) Negate() Shock {
	s.Size = -s.Size
	return s
}

// Apply returns a deep copy of base with the shock applied. base is never
// modified. The shocked name must exist in base.
func (s Shock) Apply(base *Snapshot) (*Snapshot, error) {
	out := base.Clone()
	if err := s.applyInPlace(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s Shock) applyInPlace(snap *Snapshot) error {
	switch s.Target {
	case TargetCurve:
		c, err := snap.Curve(s.Name)
		if err != nil {
			return fmt.Errorf("shock %s: %w", s.ID, err)
		}
		c.Shift(s.Size)
	case TargetVol:
		v, err := snap.VolCurve(s.Name)
		if err != nil {
			return fmt.Errorf("shock %s: %w", s.ID, err)
		}
		v.Shift(s.Size)
	case TargetSpot:
		p, err := snap.Spot(s.Name)
		if err != nil {
			return fmt.Errorf("shock %s: %w", s.ID, err)
		}
		snap.spots[strings.ToUpper(s.Name)] = p + s.Size
	default:
		return fmt.Errorf("shock %s: unknown target %v", s.ID, s.Target)
	}
	return nil
}
