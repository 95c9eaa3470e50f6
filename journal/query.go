package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/pricer/errs"
)

const runColumns = `run_id, created, valuation_date, config_path, steps, curve_shock, vol_shock,
	spot_shock, concurrent, trades, failed, total_pv, elapsed_ms`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (RunRecord, error) {
	var (
		rec       RunRecord
		elapsedMS int64
	)
	err := s.Scan(
		&rec.RunID,
		&rec.Created,
		&rec.ValuationDate,
		&rec.ConfigPath,
		&rec.Steps,
		&rec.CurveShock,
		&rec.VolShock,
		&rec.SpotShock,
		&rec.Concurrent,
		&rec.Trades,
		&rec.Failed,
		&rec.TotalPV,
		&elapsedMS,
	)
	rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	return rec, err
}

// GetRun returns a single run by ID.
func (j *SQLiteJournal) GetRun(ctx context.Context, runID string) (RunRecord, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	rec, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, fmt.Errorf("run %q not found: %w", runID, errs.ErrLookup)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListRuns returns the most recent runs first. limit <= 0 means all.
func (j *SQLiteJournal) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created DESC, run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListResultsByRun returns the results of a run in portfolio order, each
// with its sensitivities sorted by kind and factor.
func (j *SQLiteJournal) ListResultsByRun(ctx context.Context, runID string) ([]ResultRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, seq, trade_id, label, kind, underlying, pv, dv01, vega, delta, status, error
		FROM results
		WHERE run_id = ?
		ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResultRecord
	index := make(map[string]int)
	for rows.Next() {
		var rec ResultRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Seq,
			&rec.TradeID,
			&rec.Label,
			&rec.Kind,
			&rec.Underlying,
			&rec.PV,
			&rec.DV01,
			&rec.Vega,
			&rec.Delta,
			&rec.Status,
			&rec.Error,
		); err != nil {
			return nil, err
		}
		index[rec.TradeID] = len(out)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	srows, err := j.db.QueryContext(ctx, `
		SELECT trade_id, kind, factor, value
		FROM sensitivities
		WHERE run_id = ?
		ORDER BY trade_id, kind, factor`, runID)
	if err != nil {
		return nil, err
	}
	defer srows.Close()

	for srows.Next() {
		var (
			tradeID string
			s       Sensitivity
		)
		if err := srows.Scan(&tradeID, &s.Kind, &s.Factor, &s.Value); err != nil {
			return nil, err
		}
		if i, ok := index[tradeID]; ok {
			out[i].Sensitivities = append(out[i].Sensitivities, s)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
