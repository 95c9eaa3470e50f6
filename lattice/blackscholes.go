package lattice

import "math"

// BlackScholes returns the closed-form European call (call=true) or put
// value per unit notional. Degenerate inputs return discounted intrinsic
// value on the forward.
func BlackScholes(call bool, spot, strike, r, vol, t float64) float64 {
	df := math.Exp(-r * t)
	if t <= 0 || vol <= 0 {
		fwd := spot / df
		if call {
			return df * math.Max(fwd-strike, 0)
		}
		return df * math.Max(strike-fwd, 0)
	}

	sqrtT := math.Sqrt(t)
	d1 := (math.Log(spot/strike) + (r+0.5*vol*vol)*t) / (vol * sqrtT)
	d2 := d1 - vol*sqrtT

	if call {
		return spot*normCDF(d1) - strike*df*normCDF(d2)
	}
	return strike*df*normCDF(-d2) - spot*normCDF(-d1)
}

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
