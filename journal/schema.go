package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	valuation_date TEXT NOT NULL,
	config_path TEXT NOT NULL,
	steps INTEGER NOT NULL,
	curve_shock REAL NOT NULL,
	vol_shock REAL NOT NULL,
	spot_shock REAL NOT NULL,
	concurrent INTEGER NOT NULL,
	trades INTEGER NOT NULL DEFAULT 0,
	failed INTEGER NOT NULL DEFAULT 0,
	total_pv REAL NOT NULL DEFAULT 0,
	elapsed_ms INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS results (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	seq INTEGER NOT NULL,
	trade_id TEXT NOT NULL,
	label TEXT NOT NULL,
	kind TEXT NOT NULL,
	underlying TEXT NOT NULL,
	pv REAL NOT NULL,
	dv01 REAL NOT NULL,
	vega REAL NOT NULL,
	delta REAL NOT NULL,
	status TEXT NOT NULL,
	error TEXT NOT NULL,
	PRIMARY KEY (run_id, trade_id)
);

CREATE TABLE IF NOT EXISTS sensitivities (
	run_id TEXT NOT NULL,
	trade_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	factor TEXT NOT NULL,
	value REAL NOT NULL,
	PRIMARY KEY (run_id, trade_id, kind, factor)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created);
CREATE INDEX IF NOT EXISTS idx_results_seq ON results(run_id, seq);
`
