package instrument

import (
	"math"
	"testing"
	"time"

	"github.com/rustyeddy/pricer/date"
	"github.com/rustyeddy/pricer/errs"
	"github.com/rustyeddy/pricer/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = date.New(2025, time.January, 2)

func flatMarket(t *testing.T, rate, vol, spot float64) *market.Snapshot {
	t.Helper()

	s := market.NewSnapshot(asOf)
	rc := market.NewRateCurve("USD-SOFR", asOf)
	require.NoError(t, rc.Add(asOf.AddDays(1), rate))
	s.AddCurve("USD-SOFR", rc)

	vc := market.NewVolCurve("LOGVOL", asOf)
	require.NoError(t, vc.Add(asOf.AddDays(1), vol))
	s.AddVolCurve("LOGVOL", vc)

	s.AddSpot("APPL", spot)
	return s
}

func common(id string, notional float64) Common {
	return Common{TradeID: id, UnderlyingID: "appl", Amount: notional, Traded: asOf, Curve: "USD-SOFR"}
}

func terms() OptionTerms {
	return OptionTerms{Expiry: asOf.AddDays(360), Vol: "LOGVOL"}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for k, name := range kindNames {
		got, err := ParseKind(" " + name + " ")
		require.NoError(t, err)
		assert.Equal(t, k, got)
		assert.Equal(t, name, k.String())
	}

	_, err := ParseKind("future")
	assert.ErrorIs(t, err, errs.ErrConfiguration)
	assert.Equal(t, "Kind(42)", Kind(42).String())

	assert.True(t, KindAmerCallSpread.IsOption())
	assert.False(t, KindSwap.IsOption())
}

func TestVanillaPayoff(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5.0, VanillaPayoff(OptionCall, 100, 105))
	assert.Equal(t, 0.0, VanillaPayoff(OptionCall, 100, 95))
	assert.Equal(t, 5.0, VanillaPayoff(OptionPut, 100, 95))
	assert.Equal(t, 0.0, VanillaPayoff(OptionPut, 100, 105))
	assert.Equal(t, 0.0, VanillaPayoff(OptionNone, 100, 150))

	assert.Equal(t, OptionCall, ParseOptionType("Call"))
	assert.Equal(t, OptionPut, ParseOptionType("put "))
	assert.Equal(t, OptionNone, ParseOptionType(""))
}

func TestCallSpreadPayoff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		s    float64
		want float64
	}{
		{"below k1", 90, 0},
		{"at k1", 100, 0},
		{"between", 104, 4},
		{"at k2", 110, 10},
		{"above k2", 150, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CallSpreadPayoff(100, 110, tt.s), tt.name)
	}
}

func TestCallSpreadStrikeOrder(t *testing.T) {
	t.Parallel()

	_, err := NewEuroCallSpread(common("CS1", 1), terms(), 110, 100)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = NewAmerCallSpread(common("CS2", 1), terms(), 100, 100)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestConstructorValidation(t *testing.T) {
	t.Parallel()

	c := common("X", 1)
	c.UnderlyingID = ""
	_, err := NewEuropeanOption(c, terms(), OptionCall, 100)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	c = common("X", 1)
	c.Curve = ""
	_, err = NewBond(c, asOf, asOf.AddMonths(12), 0.05, 1)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	tm := terms()
	tm.Vol = ""
	_, err = NewAmericanOption(common("X", 1), tm, OptionPut, 100)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	tm = terms()
	tm.Steps = -1
	_, err = NewAmericanOption(common("X", 1), tm, OptionPut, 100)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestEuropeanOptionMatchesBlack(t *testing.T) {
	t.Parallel()

	mkt := flatMarket(t, 0.05, 0.20, 100)
	tm := terms()
	tm.Steps = 200
	opt, err := NewEuropeanOption(common("E1", 10), tm, OptionCall, 100)
	require.NoError(t, err)
	assert.Equal(t, "APPL", opt.Underlying())
	assert.Equal(t, "european APPL", Label(opt))

	pv, err := opt.Pv(mkt)
	require.NoError(t, err)
	black, err := opt.BlackPv(mkt)
	require.NoError(t, err)

	assert.InDelta(t, 104.506, black, 1e-2)
	assert.InDelta(t, black, pv, 0.15)
}

func TestAmericanAtLeastEuropean(t *testing.T) {
	t.Parallel()

	mkt := flatMarket(t, 0.05, 0.25, 100)

	eu, err := NewEuropeanOption(common("E", 1), terms(), OptionPut, 105)
	require.NoError(t, err)
	am, err := NewAmericanOption(common("A", 1), terms(), OptionPut, 105)
	require.NoError(t, err)

	pvEu, err := eu.Pv(mkt)
	require.NoError(t, err)
	pvAm, err := am.Pv(mkt)
	require.NoError(t, err)
	assert.Greater(t, pvAm, pvEu)

	ecs, err := NewEuroCallSpread(common("ECS", 1), terms(), 95, 110)
	require.NoError(t, err)
	acs, err := NewAmerCallSpread(common("ACS", 1), terms(), 95, 110)
	require.NoError(t, err)

	pvEcs, err := ecs.Pv(mkt)
	require.NoError(t, err)
	pvAcs, err := acs.Pv(mkt)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pvAcs, pvEcs)
	assert.Greater(t, pvEcs, 0.0)
	assert.Less(t, pvAcs, 15.0)
}

func TestZeroVolCallIsForwardIntrinsic(t *testing.T) {
	t.Parallel()

	mkt := flatMarket(t, 0.03, 0, 100)
	opt, err := NewEuropeanOption(common("Z", 1), terms(), OptionCall, 100)
	require.NoError(t, err)

	pv, err := opt.Pv(mkt)
	require.NoError(t, err)
	assert.InDelta(t, 100*(1-math.Exp(-0.03)), pv, 1e-9)
}

func TestOptionMissingMarketData(t *testing.T) {
	t.Parallel()

	mkt := flatMarket(t, 0.03, 0.2, 100)
	c := common("M", 1)
	c.UnderlyingID = "MSFT"
	opt, err := NewAmericanOption(c, terms(), OptionCall, 100)
	require.NoError(t, err)

	_, err = opt.Pv(mkt)
	assert.ErrorIs(t, err, errs.ErrLookup)
}
