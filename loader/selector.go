package loader

import (
	"strings"

	"github.com/rustyeddy/pricer/config"
)

// CurveSelector picks the rate and vol curve for a trade's underlying. An
// explicit mapping wins over the defaults.
type CurveSelector struct {
	DefaultRate string
	DefaultVol  string

	rateBy map[string]string
	volBy  map[string]string
}

// NewCurveSelector builds a selector from the portfolio section of the
// config. Underlying keys are matched case-insensitively.
func NewCurveSelector(pc config.PortfolioConfig) CurveSelector {
	return CurveSelector{
		DefaultRate: pc.DefaultRateCurve,
		DefaultVol:  pc.DefaultVolCurve,
		rateBy:      upperKeys(pc.RateCurveByUnderlying),
		volBy:       upperKeys(pc.VolCurveByUnderlying),
	}
}

func (s CurveSelector) RateCurve(underlying string) string {
	if name, ok := s.rateBy[strings.ToUpper(underlying)]; ok {
		return name
	}
	return s.DefaultRate
}

func (s CurveSelector) VolCurve(underlying string) string {
	if name, ok := s.volBy[strings.ToUpper(underlying)]; ok {
		return name
	}
	return s.DefaultVol
}

func upperKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return out
}
