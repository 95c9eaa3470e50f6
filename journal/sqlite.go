package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

// RecordRun inserts the run, or updates its totals when the run id is
// already present.
func (j *SQLiteJournal) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, valuation_date, config_path, steps, curve_shock, vol_shock, spot_shock,
		 concurrent, trades, failed, total_pv, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			trades = excluded.trades,
			failed = excluded.failed,
			total_pv = excluded.total_pv,
			elapsed_ms = excluded.elapsed_ms`,
		r.RunID, r.Created.UTC(), r.ValuationDate, r.ConfigPath, r.Steps,
		r.CurveShock, r.VolShock, r.SpotShock, r.Concurrent,
		r.Trades, r.Failed, r.TotalPV, r.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", r.RunID, err)
	}
	return nil
}

// RecordResult stores the result and its sensitivities in one transaction.
func (j *SQLiteJournal) RecordResult(r ResultRecord) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO results
		(run_id, seq, trade_id, label, kind, underlying, pv, dv01, vega, delta, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Seq, r.TradeID, r.Label, r.Kind, r.Underlying,
		r.PV, r.DV01, r.Vega, r.Delta, r.Status, r.Error,
	)
	if err != nil {
		return fmt.Errorf("record result %s/%s: %w", r.RunID, r.TradeID, err)
	}

	for _, s := range r.Sensitivities {
		_, err := tx.Exec(`
			INSERT INTO sensitivities (run_id, trade_id, kind, factor, value)
			VALUES (?, ?, ?, ?, ?)`,
			r.RunID, r.TradeID, s.Kind, s.Factor, s.Value,
		)
		if err != nil {
			return fmt.Errorf("record sensitivity %s/%s %s: %w", r.RunID, r.TradeID, s.Factor, err)
		}
	}
	return tx.Commit()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
