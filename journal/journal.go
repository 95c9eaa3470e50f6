// Package journal records pricing runs and their per-trade results to a
// delimited report, a SQLite database or both.
package journal

import (
	"errors"
	"time"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// RunRecord describes one pricing run.
type RunRecord struct {
	RunID         string
	Created       time.Time
	ValuationDate string
	ConfigPath    string
	Steps         int
	CurveShock    float64
	VolShock      float64
	SpotShock     float64
	Concurrent    bool

	// filled in once the run is finished
	Trades  int
	Failed  int
	TotalPV float64
	Elapsed time.Duration
}

// Sensitivity is one bumped factor of one trade.
type Sensitivity struct {
	Kind   string // dv01, vega, price
	Factor string
	Value  float64
}

// ResultRecord is the outcome for one trade. A failed trade carries
// Status=error and the error text; its numbers are not meaningful.
type ResultRecord struct {
	RunID      string
	Seq        int // 1-based position in the portfolio
	TradeID    string
	Label      string
	Kind       string
	Underlying string
	PV         float64
	DV01       float64
	Vega       float64
	Delta      float64
	Status     string
	Error      string

	Sensitivities []Sensitivity
}

// Failed reports whether the trade could not be priced.
func (r ResultRecord) Failed() bool { return r.Status == StatusError }

type Journal interface {
	RecordRun(RunRecord) error
	RecordResult(ResultRecord) error
	Close() error
}

// Multi fans every record out to several journals.
type Multi []Journal

func (m Multi) RecordRun(r RunRecord) error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.RecordRun(r))
	}
	return errors.Join(errs...)
}

func (m Multi) RecordResult(r ResultRecord) error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.RecordResult(r))
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.Close())
	}
	return errors.Join(errs...)
}
