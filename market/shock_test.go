package market

import (
	"testing"

	"github.com/rustyeddy/pricer/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateAt(t *testing.T, s *Snapshot, name string) float64 {
	t.Helper()
	c, err := s.Curve(name)
	require.NoError(t, err)
	r, err := c.Rate(asOf.AddDays(360))
	require.NoError(t, err)
	return r
}

func TestCurveShockTouchesOnlyTarget(t *testing.T) {
	t.Parallel()

	base := newTestSnapshot(t)

	up, err := CurveShock("USD-SOFR", 0.0001).Apply(base)
	require.NoError(t, err)

	assert.InDelta(t, 0.0451, rateAt(t, up, "USD-SOFR"), 1e-12)
	assert.InDelta(t, 0.0300, rateAt(t, up, "SGD-SORA"), 1e-12)
	assert.InDelta(t, 0.0450, rateAt(t, base, "USD-SOFR"), 1e-12)
}

func TestShockNegateRoundTrip(t *testing.T) {
	t.Parallel()

	base := newTestSnapshot(t)
	s := VolShock("LOGVOL", 0.01)

	up, err := s.Apply(base)
	require.NoError(t, err)
	back, err := s.Negate().Apply(up)
	require.NoError(t, err)

	v, err := back.VolCurve("LOGVOL")
	require.NoError(t, err)
	got, err := v.Vol(asOf)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, got, 1e-15)
	assert.Equal(t, 0.01, s.Size)
}

func TestSpotShock(t *testing.T) {
	t.Parallel()

	base := newTestSnapshot(t)
	s := SpotShock("appl", 1.0)
	assert.Equal(t, "APPL", s.ID)

	bumped, err := s.Apply(base)
	require.NoError(t, err)

	p, err := bumped.Spot("APPL")
	require.NoError(t, err)
	assert.Equal(t, 151.0, p)

	p, err = base.Spot("APPL")
	require.NoError(t, err)
	assert.Equal(t, 150.0, p)
}

func TestShockMissingTarget(t *testing.T) {
	t.Parallel()

	base := newTestSnapshot(t)

	for _, s := range []Shock{
		CurveShock("EUR-ESTR", 0.0001),
		VolShock("SKEW", 0.01),
		SpotShock("MSFT", 1),
	} {
		_, err := s.Apply(base)
		assert.ErrorIs(t, err, errs.ErrLookup, s.ID)
	}
}

func TestTargetString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "curve", TargetCurve.String())
	assert.Equal(t, "vol", TargetVol.String())
	assert.Equal(t, "spot", TargetSpot.String())
	assert.Equal(t, "Target(9)", Target(9).String())
}
