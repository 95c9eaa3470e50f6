package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rustyeddy/pricer/config"
	"github.com/rustyeddy/pricer/date"
	"github.com/rustyeddy/pricer/errs"
	"github.com/rustyeddy/pricer/instrument"
	"github.com/rustyeddy/pricer/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = date.New(2025, time.January, 2)

func testSelector() CurveSelector {
	return NewCurveSelector(config.PortfolioConfig{
		DefaultRateCurve:      "USD-SOFR",
		DefaultVolCurve:       "LOGVOL",
		RateCurveByUnderlying: map[string]string{"eur": "EUR-ESTR"},
	})
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.ValuationDate = asOf.String()
	cfg.Market.RateCurves = []config.CurveFile{
		{Name: "USD-SOFR", File: filepath.Join("testdata", "usd_sofr.csv")},
		{Name: "EUR-ESTR", File: filepath.Join("testdata", "eur_estr.csv")},
	}
	cfg.Market.VolCurves = []config.CurveFile{{Name: "LOGVOL", File: filepath.Join("testdata", "logvol.csv")}}
	cfg.Market.SpotsFile = filepath.Join("testdata", "spots.csv")
	cfg.Portfolio.TradesFile = filepath.Join("testdata", "trades.csv")
	return cfg
}

func TestCurveSelector(t *testing.T) {
	t.Parallel()

	s := testSelector()
	assert.Equal(t, "EUR-ESTR", s.RateCurve("EUR"))
	assert.Equal(t, "USD-SOFR", s.RateCurve("APPL"))
	assert.Equal(t, "LOGVOL", s.VolCurve("eur"))
}

func TestLoadTrades(t *testing.T) {
	t.Parallel()

	trades, err := LoadTrades(filepath.Join("testdata", "trades.csv"), TradeOptions{Selector: testSelector(), Steps: 25})
	require.NoError(t, err)
	require.Len(t, trades, 7)

	wantKinds := []instrument.Kind{
		instrument.KindBond, instrument.KindSwap, instrument.KindSwap,
		instrument.KindEuropean, instrument.KindAmerican,
		instrument.KindEuroCallSpread, instrument.KindAmerCallSpread,
	}
	for i, in := range trades {
		assert.Equal(t, wantKinds[i], in.Kind(), in.ID())
	}

	bond := trades[0].(*instrument.Bond)
	assert.Equal(t, 1_000_000.0, bond.Notional())
	assert.Equal(t, 0.045, bond.Coupon)
	assert.Equal(t, 99.5, bond.TradePrice)
	assert.Equal(t, date.New(2024, time.December, 20), bond.TradeDate())

	receiver := trades[2].(*instrument.Swap)
	assert.Equal(t, -2_000_000.0, receiver.Notional())
	assert.Equal(t, "EUR-ESTR", receiver.RateCurve())

	put := trades[4].(*instrument.AmericanOption)
	assert.Equal(t, -5000.0, put.Notional())
	assert.Equal(t, instrument.OptionPut, put.Type)
	assert.Equal(t, 25, put.Steps())
	assert.Equal(t, "LOGVOL", put.VolCurve())

	spread := trades[5].(*instrument.EuroCallSpread)
	assert.Equal(t, 400.0, spread.Low)
	assert.Equal(t, 450.0, spread.High)
	assert.Equal(t, "MSFT", spread.Underlying())
}

func TestReadTradesErrors(t *testing.T) {
	t.Parallel()

	header := "id;type;trade_date;start_date;end_date;notional;underlying;rate;strike;freq;option_type;direction\n"
	tests := []struct {
		name string
		row  string
		msg  string
	}{
		{"unknown type", "1;future;2025-01-02;2025-01-02;2026-01-02;1;X;0;0;1;;long", "line 2"},
		{"bad date", "1;bond;2025-13-02;2025-01-02;2026-01-02;1;X;0;0;1;;long", "trade_date"},
		{"bad notional", "1;bond;2025-01-02;2025-01-02;2026-01-02;lots;X;0;0;1;;long", "notional"},
		{"missing notional", "1;bond;2025-01-02;2025-01-02;2026-01-02;;X;0;0;1;;long", "notional is required"},
		{"short row", "1;bond;2025-01-02", "columns"},
		{"bad direction", "1;bond;2025-01-02;2025-01-02;2026-01-02;1;X;0;0;1;;sideways", "direction"},
		{"missing strike2", "1;eurocallspread;2025-01-02;2025-01-02;2026-01-02;1;X;0;100;0;call;long", "strike2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ReadTrades(strings.NewReader(header+tt.row+"\n"), TradeOptions{Selector: testSelector()})
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestReadTradesDuplicateID(t *testing.T) {
	t.Parallel()

	body := "header\n" +
		"A;swap;2025-01-02;2025-01-02;2026-01-02;1;X;0.03;0;1;;pay\n" +
		"\n" +
		"A;swap;2025-01-02;2025-01-02;2026-01-02;1;X;0.03;0;1;;pay\n"
	_, err := ReadTrades(strings.NewReader(body), TradeOptions{Selector: testSelector()})
	assert.ErrorIs(t, err, errs.ErrConfiguration)
	assert.Contains(t, err.Error(), "line 4")
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadTradesCustomDelimiter(t *testing.T) {
	t.Parallel()

	body := "id,type,trade_date,start_date,end_date,notional,underlying,rate,strike,freq,option_type,direction\n" +
		"7,european,2025-01-02,2025-01-02,2026-01-02,3,APPL,0,100,0,put,buy\n"
	trades, err := ReadTrades(strings.NewReader(body), TradeOptions{Selector: testSelector(), Delimiter: ','})
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, 3.0, trades[0].Notional())
}

func TestLoadRateCurve(t *testing.T) {
	t.Parallel()

	c, err := LoadRateCurve(filepath.Join("testdata", "usd_sofr.csv"), "USD-SOFR", asOf)
	require.NoError(t, err)

	pts := c.Points()
	require.Len(t, pts, 7)
	assert.Equal(t, asOf.AddDays(1), pts[0].Tenor)
	assert.InDelta(t, 0.043, pts[0].Value, 1e-12)
	assert.Equal(t, asOf.AddMonths(12), pts[3].Tenor)
	assert.InDelta(t, 0.04, pts[3].Value, 1e-12)
}

func TestReadTenorPointsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		line string
	}{
		{"bad tenor", "tenor:rate\n3Q:4%\n", "line 2"},
		{"bad value", "tenor:rate\n1Y:four%\n", "line 2"},
		{"missing value", "tenor:rate\n1Y\n", "line 2"},
		{"duplicate tenor", "tenor:rate\n12M:4%\n1Y:4.1%\n", "line 3"},
	}
	for _, tt := range tests {
		c := market.NewRateCurve("X", asOf)
		err := ReadTenorPoints(strings.NewReader(tt.body), asOf, c.Add)
		require.Error(t, err, tt.name)
		assert.Contains(t, err.Error(), tt.line, tt.name)
	}

	// percent sign is optional
	v := market.NewVolCurve("V", asOf)
	require.NoError(t, ReadTenorPoints(strings.NewReader("tenor:vol\n1Y: 20\n"), asOf, v.Add))
	vol, err := v.Vol(asOf.AddMonths(12))
	require.NoError(t, err)
	assert.InDelta(t, 0.2, vol, 1e-12)
}

func TestReadSpots(t *testing.T) {
	t.Parallel()

	spots, err := ReadSpots(strings.NewReader("appl: 210.5\n\nmsft:425\n"))
	require.NoError(t, err)
	assert.Equal(t, []Spot{{"APPL", 210.5}, {"MSFT", 425}}, spots)

	_, err = ReadSpots(strings.NewReader("APPL 210.5\n"))
	assert.ErrorIs(t, err, errs.ErrConfiguration)
	_, err = ReadSpots(strings.NewReader("APPL: cheap\n"))
	assert.ErrorIs(t, err, errs.ErrConfiguration)
}

func TestLoadMarket(t *testing.T) {
	t.Parallel()

	snap, err := LoadMarket(testConfig(), asOf)
	require.NoError(t, err)

	assert.Equal(t, asOf, snap.AsOf)
	assert.Equal(t, []string{"EUR-ESTR", "USD-SOFR"}, snap.CurveNames())
	assert.Equal(t, []string{"LOGVOL"}, snap.VolNames())
	assert.Equal(t, []string{"APPL", "MSFT"}, snap.Tickers())

	spot, err := snap.Spot("appl")
	require.NoError(t, err)
	assert.Equal(t, 210.5, spot)
}

func TestLoadMarketMissingFile(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Market.VolCurves[0].File = filepath.Join(t.TempDir(), "nope.csv")
	_, err := LoadMarket(cfg, asOf)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadedPortfolioPrices(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	snap, err := LoadMarket(cfg, asOf)
	require.NoError(t, err)
	trades, err := LoadTrades(cfg.Portfolio.TradesFile, TradeOptions{Selector: NewCurveSelector(cfg.Portfolio)})
	require.NoError(t, err)

	for _, in := range trades {
		_, err := in.Pv(snap)
		assert.NoError(t, err, in.ID())
	}
}
