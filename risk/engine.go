package risk

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/pricer/market"
)

// Config sets the shock sizes and which curves/vols/spots get a factor.
// Empty name lists mean every name present in the base snapshot.
type Config struct {
	CurveShock float64 // e.g. 0.0001 = 1bp of zero rate
	VolShock   float64 // e.g. 0.01 = 1 vol point
	SpotShock  float64 // absolute spot bump

	Curves []string
	Vols   []string
	Spots  []string

	Workers int // worker pool size for concurrent runs
}

// DefaultConfig mirrors the usual 1bp / 1% / 1.0 bumps.
func DefaultConfig() Config {
	return Config{
		CurveShock: 0.0001,
		VolShock:   0.01,
		SpotShock:  1.0,
		Workers:    4,
	}
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine holds the base market and the pre-built scenario pairs for every
// registered factor. Scenario snapshots are built once at construction
// and only read afterwards.
type Engine struct {
	base   *market.Snapshot
	cfg    Config
	curves []Factor
	vols   []Factor
	spots  []Factor
	log    *zap.Logger
	result map[string]float64
}

// NewEngine registers one factor per configured curve, vol curve and spot.
// A configured name missing from base fails with errs.ErrLookup.
func NewEngine(base *market.Snapshot, cfg Config, opts ...Option) (*Engine, error) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if len(cfg.Curves) == 0 {
		cfg.Curves = base.CurveNames()
	}
	if len(cfg.Vols) == 0 {
		cfg.Vols = base.VolNames()
	}
	if len(cfg.Spots) == 0 {
		cfg.Spots = base.Tickers()
	}

	e := &Engine{
		base:   base,
		cfg:    cfg,
		log:    zap.NewNop(),
		result: make(map[string]float64),
	}
	for _, o := range opts {
		o(e)
	}

	for _, name := range cfg.Curves {
		f, err := newCentralFactor(KindDV01, base, market.CurveShock(name, cfg.CurveShock))
		if err != nil {
			return nil, fmt.Errorf("register curve factor: %w", err)
		}
		e.curves = append(e.curves, f)
	}
	for _, name := range cfg.Vols {
		f, err := newCentralFactor(KindVega, base, market.VolShock(name, cfg.VolShock))
		if err != nil {
			return nil, fmt.Errorf("register vol factor: %w", err)
		}
		e.vols = append(e.vols, f)
	}
	for _, ticker := range cfg.Spots {
		f, err := newOneSidedFactor(KindPrice, base, market.SpotShock(ticker, cfg.SpotShock))
		if err != nil {
			return nil, fmt.Errorf("register spot factor: %w", err)
		}
		e.spots = append(e.spots, f)
	}

	e.log.Debug("risk engine ready",
		zap.String("as_of", base.AsOf.String()),
		zap.Int("curve_factors", len(e.curves)),
		zap.Int("vol_factors", len(e.vols)),
		zap.Int("spot_factors", len(e.spots)),
		zap.Int("workers", cfg.Workers),
	)
	return e, nil
}

// Base returns the unshocked snapshot.
func (e *Engine) Base() *market.Snapshot { return e.base }

// Factors returns the registered factors of kind in registration order.
func (e *Engine) Factors(kind Kind) []Factor {
	factors, _ := e.factors(kind)
	return factors
}

func (e *Engine) factors(kind Kind) ([]Factor, bool) {
	switch kind {
	case KindDV01:
		return e.curves, true
	case KindVega:
		return e.vols, true
	case KindPrice:
		return e.spots, true
	default:
		return nil, false
	}
}

// ComputeRisk returns factor id -> sensitivity of v for the given kind.
// The previous result is discarded on every call. An unknown kind yields
// an empty result and no error. Any failing revaluation fails the whole
// call and no partial result is kept.
//
// With concurrent set, each factor is one task on a pool of cfg.Workers
// goroutines; otherwise factors run in registration order. Both paths
// produce the same numbers.
func (e *Engine) ComputeRisk(ctx context.Context, kind Kind, v Valuer, concurrent bool) (map[string]float64, error) {
	e.result = make(map[string]float64)

	factors, ok := e.factors(kind)
	if !ok {
		e.log.Warn("unknown risk kind, returning empty result", zap.String("kind", string(kind)))
		return e.Result(), nil
	}

	start := time.Now()
	var (
		values []float64
		err    error
	)
	if concurrent {
		values, err = e.runConcurrent(ctx, factors, v)
	} else {
		values, err = e.runSequential(ctx, factors, v)
	}
	if err != nil {
		e.log.Error("risk computation failed", zap.String("kind", string(kind)), zap.Error(err))
		return nil, err
	}

	for i, f := range factors {
		e.result[f.ID] = values[i]
	}
	e.log.Debug("risk computed",
		zap.String("kind", string(kind)),
		zap.Int("factors", len(factors)),
		zap.Bool("concurrent", concurrent),
		zap.Duration("elapsed", time.Since(start)),
	)
	return e.Result(), nil
}

// Result returns a copy of the last computed result.
func (e *Engine) Result() map[string]float64 {
	out := make(map[string]float64, len(e.result))
	for k, v := range e.result {
		out[k] = v
	}
	return out
}

func (e *Engine) runSequential(ctx context.Context, factors []Factor, v Valuer) ([]float64, error) {
	out := make([]float64, len(factors))
	for i, f := range factors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := f.sensitivity(v)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// runConcurrent fans factors out to the pool. Each task writes only its own
// slot; the slice is read after Wait.
func (e *Engine) runConcurrent(ctx context.Context, factors []Factor, v Valuer) ([]float64, error) {
	out := make([]float64, len(factors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, f := range factors {
		g.Go(func() error {
			// skip tasks queued behind a failure
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := f.sensitivity(v)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
