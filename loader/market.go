package loader

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rustyeddy/pricer/config"
	"github.com/rustyeddy/pricer/date"
	"github.com/rustyeddy/pricer/errs"
	"github.com/rustyeddy/pricer/market"
)

// LoadMarket assembles the snapshot for asOf from the curve, vol and spot
// files named in cfg.
func LoadMarket(cfg *config.Config, asOf date.Date) (*market.Snapshot, error) {
	snap := market.NewSnapshot(asOf)

	for _, cf := range cfg.Market.RateCurves {
		c, err := LoadRateCurve(cf.File, cf.Name, asOf)
		if err != nil {
			return nil, err
		}
		snap.AddCurve(cf.Name, c)
	}
	for _, cf := range cfg.Market.VolCurves {
		v, err := LoadVolCurve(cf.File, cf.Name, asOf)
		if err != nil {
			return nil, err
		}
		snap.AddVolCurve(cf.Name, v)
	}

	spots, err := LoadSpots(cfg.Market.SpotsFile)
	if err != nil {
		return nil, err
	}
	for _, s := range spots {
		snap.AddSpot(s.Ticker, s.Price)
	}
	return snap, nil
}

// LoadRateCurve reads a "tenor:rate%" file into a curve anchored at asOf.
func LoadRateCurve(path, name string, asOf date.Date) (*market.RateCurve, error) {
	c := market.NewRateCurve(name, asOf)
	if err := loadTenorFile(path, asOf, c.Add); err != nil {
		return nil, fmt.Errorf("load rate curve %s: %w", name, err)
	}
	return c, nil
}

// LoadVolCurve reads a "tenor:vol%" file into a vol curve anchored at asOf.
func LoadVolCurve(path, name string, asOf date.Date) (*market.VolCurve, error) {
	v := market.NewVolCurve(name, asOf)
	if err := loadTenorFile(path, asOf, v.Add); err != nil {
		return nil, fmt.Errorf("load vol curve %s: %w", name, err)
	}
	return v, nil
}

func loadTenorFile(path string, asOf date.Date, add func(date.Date, float64) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReadTenorPoints(f, asOf, add)
}

// ReadTenorPoints parses a header row followed by "tenor:value%" lines.
// Values are percentages; the trailing '%' is optional. Each tenor is
// rolled from asOf and handed to add.
func ReadTenorPoints(r io.Reader, asOf date.Date, add func(date.Date, float64) error) error {
	cr := newReader(r, ':')

	header := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%v: %w", err, errs.ErrConfiguration)
		}
		if header {
			header = false
			continue
		}
		line, _ := cr.FieldPos(0)
		if blank(row) {
			continue
		}
		if len(row) != 2 {
			return fmt.Errorf("line %d: want tenor:value, got %q: %w",
				line, strings.Join(row, ":"), errs.ErrConfiguration)
		}

		d, err := asOf.AddTenor(strings.TrimSpace(row[0]))
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		v, err := parsePercent(row[1])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := add(d, v); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}

func parsePercent(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("bad percentage %q: %w", s, errs.ErrConfiguration)
	}
	return v / 100, nil
}

// Spot is one line of the spot file.
type Spot struct {
	Ticker string
	Price  float64
}

// LoadSpots reads a spot file.
func LoadSpots(path string) ([]Spot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load spots: %w", err)
	}
	defer f.Close()

	spots, err := ReadSpots(f)
	if err != nil {
		return nil, fmt.Errorf("load spots %s: %w", path, err)
	}
	return spots, nil
}

// ReadSpots parses "TICKER: price" lines. There is no header. Tickers are
// upper-cased.
func ReadSpots(r io.Reader) ([]Spot, error) {
	cr := newReader(r, ':')

	var out []Spot
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, errs.ErrConfiguration)
		}
		line, _ := cr.FieldPos(0)
		if blank(row) {
			continue
		}
		if len(row) != 2 || strings.TrimSpace(row[0]) == "" {
			return nil, fmt.Errorf("line %d: want TICKER: price: %w", line, errs.ErrConfiguration)
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad price %q: %w", line, row[1], errs.ErrConfiguration)
		}
		out = append(out, Spot{Ticker: strings.ToUpper(strings.TrimSpace(row[0])), Price: price})
	}
}
