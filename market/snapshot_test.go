package market

import (
	"testing"

	"github.com/rustyeddy/pricer/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSnapshot(t *testing.T) *Snapshot {
	t.Helper()

	s := NewSnapshot(asOf)

	usd := NewRateCurve("USD-SOFR", asOf)
	require.NoError(t, usd.Add(asOf.AddDays(30), 0.040))
	require.NoError(t, usd.Add(asOf.AddDays(360), 0.045))
	s.AddCurve("USD-SOFR", usd)

	sgd := NewRateCurve("SGD-SORA", asOf)
	require.NoError(t, sgd.Add(asOf.AddDays(30), 0.030))
	s.AddCurve("SGD-SORA", sgd)

	vol := NewVolCurve("LOGVOL", asOf)
	require.NoError(t, vol.Add(asOf.AddDays(30), 0.25))
	s.AddVolCurve("LOGVOL", vol)

	s.AddSpot("appl", 150)
	return s
}

func TestSnapshotLookups(t *testing.T) {
	t.Parallel()

	s := newTestSnapshot(t)

	c, err := s.Curve("USD-SOFR")
	require.NoError(t, err)
	assert.Equal(t, "USD-SOFR", c.Name)

	_, err = s.Curve("EUR-ESTR")
	assert.ErrorIs(t, err, errs.ErrLookup)

	_, err = s.VolCurve("NOPE")
	assert.ErrorIs(t, err, errs.ErrLookup)

	p, err := s.Spot("APPL")
	require.NoError(t, err)
	assert.Equal(t, 150.0, p)

	_, err = s.Spot("MSFT")
	assert.ErrorIs(t, err, errs.ErrLookup)

	assert.Equal(t, []string{"SGD-SORA", "USD-SOFR"}, s.CurveNames())
	assert.Equal(t, []string{"LOGVOL"}, s.VolNames())
	assert.Equal(t, []string{"APPL"}, s.Tickers())
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	t.Parallel()

	s := newTestSnapshot(t)
	cp := s.Clone()

	c, err := cp.Curve("USD-SOFR")
	require.NoError(t, err)
	c.Shift(0.01)
	v, err := cp.VolCurve("LOGVOL")
	require.NoError(t, err)
	v.Shift(0.05)
	cp.AddSpot("APPL", 1)

	orig, err := s.Curve("USD-SOFR")
	require.NoError(t, err)
	r, err := orig.Rate(asOf)
	require.NoError(t, err)
	assert.InDelta(t, 0.040, r, 1e-12)

	ov, err := s.VolCurve("LOGVOL")
	require.NoError(t, err)
	vol, err := ov.Vol(asOf)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, vol, 1e-12)

	p, err := s.Spot("APPL")
	require.NoError(t, err)
	assert.Equal(t, 150.0, p)
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	out := newTestSnapshot(t).Describe()
	assert.Contains(t, out, "market as of 2025-01-02")
	assert.Contains(t, out, "rate curve: USD-SOFR")
	assert.Contains(t, out, "vol curve: LOGVOL")
	assert.Contains(t, out, "spot APPL: 150.000000")
}
