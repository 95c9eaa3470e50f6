package portfolio

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/pricer/errs"
	"github.com/rustyeddy/pricer/instrument"
	"github.com/rustyeddy/pricer/journal"
	"github.com/rustyeddy/pricer/market"
	"github.com/rustyeddy/pricer/risk"
)

// ErrPartialFailure is returned by Evaluate when at least one trade could
// not be priced and the run was not aborted.
var ErrPartialFailure = errors.New("partial failure")

// riskKinds are evaluated for every trade, in this order.
var riskKinds = []risk.Kind{risk.KindDV01, risk.KindVega, risk.KindPrice}

// Options controls an evaluation.
type Options struct {
	RunID      string
	Concurrent bool            // fan each risk computation out to the engine's pool
	FailFast   bool            // abort on the first failing trade
	Journal    journal.Journal // optional; every result is recorded as it is produced
	Logger     *zap.Logger
}

// Summary is the outcome of Evaluate.
type Summary struct {
	Results []journal.ResultRecord
	Trades  int
	Failed  int
	TotalPV float64 // sum over trades priced successfully
	Elapsed time.Duration
}

// Evaluate prices every trade of p on snap and computes its DV01, vega and
// spot sensitivities with engine. Trades are processed one at a time in
// portfolio order.
//
// A trade that fails is flagged with status "error" and its message and the
// run continues, unless FailFast is set, in which case Evaluate stops and
// returns the error. When anything failed the returned error wraps
// ErrPartialFailure; the summary is complete either way.
func Evaluate(ctx context.Context, snap *market.Snapshot, p *Portfolio, engine *risk.Engine, opts Options) (Summary, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("run_id", opts.RunID))

	start := time.Now()
	sum := Summary{Trades: p.Len()}

	for i, in := range p.trades {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		rec, err := evaluateOne(ctx, snap, in, engine, opts.Concurrent)
		rec.RunID = opts.RunID
		rec.Seq = i + 1
		if err != nil {
			sum.Failed++
			rec.PV, rec.DV01, rec.Vega, rec.Delta = 0, 0, 0, 0
			rec.Sensitivities = nil
			rec.Status = journal.StatusError
			rec.Error = err.Error()
			log.Warn("trade failed",
				zap.String("trade_id", in.ID()),
				zap.String("label", rec.Label),
				zap.String("error_kind", errs.Kind(err)),
				zap.Error(err),
			)
		} else {
			sum.TotalPV += rec.PV
			log.Debug("trade priced",
				zap.String("trade_id", in.ID()),
				zap.Float64("pv", rec.PV),
				zap.Float64("dv01", rec.DV01),
				zap.Float64("vega", rec.Vega),
			)
		}
		sum.Results = append(sum.Results, rec)

		if opts.Journal != nil {
			if jerr := opts.Journal.RecordResult(rec); jerr != nil {
				return sum, fmt.Errorf("journal trade %s: %w", in.ID(), jerr)
			}
		}
		if err != nil && opts.FailFast {
			sum.Elapsed = time.Since(start)
			return sum, fmt.Errorf("trade %s: %w", in.ID(), err)
		}
	}

	sum.Elapsed = time.Since(start)
	log.Info("portfolio evaluated",
		zap.Int("trades", sum.Trades),
		zap.Int("failed", sum.Failed),
		zap.Float64("total_pv", sum.TotalPV),
		zap.Duration("elapsed", sum.Elapsed),
	)
	if sum.Failed > 0 {
		return sum, fmt.Errorf("%d of %d trades failed: %w", sum.Failed, sum.Trades, ErrPartialFailure)
	}
	return sum, nil
}

func evaluateOne(ctx context.Context, snap *market.Snapshot, in instrument.Instrument, engine *risk.Engine, concurrent bool) (journal.ResultRecord, error) {
	rec := journal.ResultRecord{
		TradeID:    in.ID(),
		Label:      instrument.Label(in),
		Kind:       in.Kind().String(),
		Underlying: in.Underlying(),
		Status:     journal.StatusOK,
	}

	pv, err := in.Pv(snap)
	if err != nil {
		return rec, fmt.Errorf("pv: %w", err)
	}
	rec.PV = pv

	for _, kind := range riskKinds {
		res, err := engine.ComputeRisk(ctx, kind, in, concurrent)
		if err != nil {
			return rec, fmt.Errorf("%s: %w", kind, err)
		}

		factors := make([]string, 0, len(res))
		for f := range res {
			factors = append(factors, f)
		}
		sort.Strings(factors)

		total := 0.0
		for _, f := range factors {
			total += res[f]
			rec.Sensitivities = append(rec.Sensitivities, journal.Sensitivity{Kind: string(kind), Factor: f, Value: res[f]})
		}
		switch kind {
		case risk.KindDV01:
			rec.DV01 = total
		case risk.KindVega:
			rec.Vega = total
		case risk.KindPrice:
			rec.Delta = total
		}
	}
	return rec, nil
}
