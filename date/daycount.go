package date

import "math"

// DayCount names a year-fraction convention.
type DayCount string

const (
	Act360    DayCount = "ACT/360"
	Act365F   DayCount = "ACT/365F"
	Thirty360 DayCount = "30/360" // US (bond basis)
)

// YearFraction computes the accrual fraction between start and end.
// Unknown conventions fall back to ACT/365F.
func YearFraction(start, end Date, dc DayCount) float64 {
	switch dc {
	case Act360:
		return float64(end.Sub(start)) / 360.0
	case Thirty360:
		s, e := start.Time(), end.Time()
		d1, d2 := s.Day(), e.Day()
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
		y := e.Year() - s.Year()
		m := int(e.Month()) - int(s.Month())
		return float64(360*y+30*m+(d2-d1)) / 360.0
	default:
		return float64(end.Sub(start)) / 365.0
	}
}

// FrequencyMonths converts a coupon frequency expressed as a year fraction
// (0.25, 0.5, 1) to the number of months between payments.
func FrequencyMonths(freq float64) int {
	m := int(math.Round(freq * 12))
	if m < 1 {
		m = 1
	}
	return m
}
