// Package loader reads trades, curves and spot prices from the delimited
// text files a pricing run is configured with.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rustyeddy/pricer/date"
	"github.com/rustyeddy/pricer/errs"
	"github.com/rustyeddy/pricer/instrument"
)

// Trade file columns:
//
//	id;type;trade_date;start_date;end_date;notional;underlying;rate;strike;freq;option_type;direction[;strike2]
//
// rate is the bond coupon or swap fixed rate, strike is the option strike
// (low strike for call spreads, trade price for bonds) and strike2 the
// high strike of a call spread. The first row is a header.
const (
	colID = iota
	colType
	colTradeDate
	colStart
	colEnd
	colNotional
	colUnderlying
	colRate
	colStrike
	colFreq
	colOptionType
	colDirection
	colStrike2

	minTradeCols = colDirection + 1
)

// TradeOptions controls how rows become instruments.
type TradeOptions struct {
	Selector  CurveSelector
	Steps     int  // lattice depth for options; zero means the pricer default
	Delimiter rune // zero means ';'
}

// LoadTrades reads every trade in path.
func LoadTrades(path string, opts TradeOptions) ([]instrument.Instrument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	defer f.Close()

	trades, err := ReadTrades(f, opts)
	if err != nil {
		return nil, fmt.Errorf("load trades %s: %w", path, err)
	}
	return trades, nil
}

// ReadTrades parses a trades file. Any malformed row fails the whole read
// with errs.ErrConfiguration naming the line.
func ReadTrades(r io.Reader, opts TradeOptions) ([]instrument.Instrument, error) {
	cr := newReader(r, opts.Delimiter)

	var out []instrument.Instrument
	seen := make(map[string]int)
	header := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read trades: %v: %w", err, errs.ErrConfiguration)
		}
		if header {
			header = false
			continue
		}
		line, _ := cr.FieldPos(0)
		if blank(row) {
			continue
		}

		in, err := ParseTrade(row, opts)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if prev, dup := seen[in.ID()]; dup {
			return nil, fmt.Errorf("line %d: trade id %q already used on line %d: %w",
				line, in.ID(), prev, errs.ErrConfiguration)
		}
		seen[in.ID()] = line
		out = append(out, in)
	}
	return out, nil
}

// ParseTrade builds one instrument from a split trade row.
func ParseTrade(row []string, opts TradeOptions) (instrument.Instrument, error) {
	if len(row) < minTradeCols {
		return nil, fmt.Errorf("want at least %d columns, got %d: %w", minTradeCols, len(row), errs.ErrConfiguration)
	}
	field := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	id := field(colID)
	if id == "" {
		return nil, fmt.Errorf("empty trade id: %w", errs.ErrConfiguration)
	}
	kind, err := instrument.ParseKind(field(colType))
	if err != nil {
		return nil, err
	}

	traded, err := date.Parse(field(colTradeDate))
	if err != nil {
		return nil, fmt.Errorf("trade_date: %w", err)
	}
	start, err := date.Parse(field(colStart))
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	end, err := date.Parse(field(colEnd))
	if err != nil {
		return nil, fmt.Errorf("end_date: %w", err)
	}

	notional, err := parseNumber("notional", field(colNotional), true)
	if err != nil {
		return nil, err
	}
	sign, err := directionSign(field(colDirection))
	if err != nil {
		return nil, err
	}
	notional *= sign

	rate, err := parseNumber("rate", field(colRate), false)
	if err != nil {
		return nil, err
	}
	strike, err := parseNumber("strike", field(colStrike), false)
	if err != nil {
		return nil, err
	}
	freq, err := parseNumber("freq", field(colFreq), false)
	if err != nil {
		return nil, err
	}

	underlying := field(colUnderlying)
	c := instrument.Common{
		TradeID:      id,
		UnderlyingID: underlying,
		Amount:       notional,
		Traded:       traded,
		Curve:        opts.Selector.RateCurve(underlying),
	}
	terms := instrument.OptionTerms{
		Expiry: end,
		Vol:    opts.Selector.VolCurve(underlying),
		Steps:  opts.Steps,
	}
	optType := instrument.ParseOptionType(field(colOptionType))

	switch kind {
	case instrument.KindBond:
		b, err := instrument.NewBond(c, start, end, rate, freq)
		if err != nil {
			return nil, err
		}
		b.TradePrice = strike
		return b, nil
	case instrument.KindSwap:
		return built(instrument.NewSwap(c, start, end, rate, freq))
	case instrument.KindEuropean:
		return built(instrument.NewEuropeanOption(c, terms, optType, strike))
	case instrument.KindAmerican:
		return built(instrument.NewAmericanOption(c, terms, optType, strike))
	case instrument.KindEuroCallSpread, instrument.KindAmerCallSpread:
		high, err := parseNumber("strike2", field(colStrike2), true)
		if err != nil {
			return nil, err
		}
		if kind == instrument.KindEuroCallSpread {
			return built(instrument.NewEuroCallSpread(c, terms, strike, high))
		}
		return built(instrument.NewAmerCallSpread(c, terms, strike, high))
	default:
		return nil, fmt.Errorf("unhandled trade type %v: %w", kind, errs.ErrConfiguration)
	}
}

// built drops the concrete type so a failed constructor yields a nil
// interface rather than a typed nil.
func built[T instrument.Instrument](in T, err error) (instrument.Instrument, error) {
	if err != nil {
		return nil, err
	}
	return in, nil
}

// directionSign is -1 for receive/short and +1 for pay/long or blank.
func directionSign(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "receive", "short", "sell":
		return -1, nil
	case "", "pay", "long", "buy":
		return 1, nil
	default:
		return 0, fmt.Errorf("unknown direction %q: %w", s, errs.ErrConfiguration)
	}
}

func parseNumber(name, s string, required bool) (float64, error) {
	if s == "" {
		if required {
			return 0, fmt.Errorf("%s is required: %w", name, errs.ErrConfiguration)
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", name, s, errs.ErrConfiguration)
	}
	return v, nil
}

func newReader(r io.Reader, delim rune) *csv.Reader {
	if delim == 0 {
		delim = ';'
	}
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	return cr
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
