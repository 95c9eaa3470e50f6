package journal

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// ReportHeader is the first row of the delimited report.
var ReportHeader = []string{"id", "trade_id", "label", "pv", "dv01", "vega", "status", "error"}

// DefaultPlaces is the number of decimals amounts are rounded to.
const DefaultPlaces = 6

// CSVJournal writes one report row per result. Runs are not written.
type CSVJournal struct {
	w      *csv.Writer
	f      *os.File
	places int32
}

// NewCSV creates (or truncates) path and writes the header. A zero
// delimiter means ';'.
func NewCSV(path string, delim rune) (*CSVJournal, error) {
	if delim == 0 {
		delim = ';'
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	w.Comma = delim
	if err := w.Write(ReportHeader); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSVJournal{w: w, f: f, places: DefaultPlaces}, nil
}

// SetPlaces changes the rounding of amounts.
func (j *CSVJournal) SetPlaces(places int32) { j.places = places }

func (j *CSVJournal) RecordRun(RunRecord) error { return nil }

func (j *CSVJournal) RecordResult(r ResultRecord) error {
	row := []string{
		strconv.Itoa(r.Seq),
		r.TradeID,
		r.Label,
		j.amount(r.PV),
		j.amount(r.DV01),
		j.amount(r.Vega),
		r.Status,
		r.Error,
	}
	if r.Failed() {
		row[3], row[4], row[5] = "", "", ""
	}
	if err := j.w.Write(row); err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}

// amount rounds half away from zero to the configured places.
func (j *CSVJournal) amount(x float64) string {
	return FormatAmount(x, j.places)
}

// FormatAmount renders x with exactly places decimals, rounding half away
// from zero. NaN and infinities are printed as is.
func FormatAmount(x float64, places int32) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return decimal.NewFromFloat(x).StringFixed(places)
}
