package journal

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readReport(t *testing.T, path string, delim rune) [][]string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	r := csv.NewReader(strings.NewReader(string(data)))
	r.Comma = delim
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.csv")
	j, err := NewCSV(path, 0)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	rows := readReport(t, path, ';')
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"id", "trade_id", "label", "pv", "dv01", "vega", "status", "error"}, rows[0])
}

func TestCSVJournalRecordResult(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.csv")
	j, err := NewCSV(path, ';')
	require.NoError(t, err)

	require.NoError(t, j.RecordRun(RunRecord{RunID: "R1"}))
	require.NoError(t, j.RecordResult(ResultRecord{
		Seq: 1, TradeID: "T1", Label: "swap USD-SOFR",
		PV: 1234.5678915, DV01: -45.25, Vega: 0, Status: StatusOK,
	}))
	require.NoError(t, j.RecordResult(ResultRecord{
		Seq: 2, TradeID: "T2", Label: "american APPL",
		PV: 99, Status: StatusError, Error: `spot "APPL" not found; lookup`,
	}))
	require.NoError(t, j.Close())

	rows := readReport(t, path, ';')
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"1", "T1", "swap USD-SOFR", "1234.567892", "-45.250000", "0.000000", "ok", ""}, rows[1])
	assert.Equal(t, []string{"2", "T2", "american APPL", "", "", "", "error", `spot "APPL" not found; lookup`}, rows[2])
}

func TestCSVJournalPlacesAndDelimiter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.csv")
	j, err := NewCSV(path, ',')
	require.NoError(t, err)
	j.SetPlaces(2)

	require.NoError(t, j.RecordResult(ResultRecord{Seq: 1, TradeID: "T1", Label: "bond X", PV: -0.125, DV01: 2.675, Status: StatusOK}))
	require.NoError(t, j.Close())

	rows := readReport(t, path, ',')
	require.Len(t, rows, 2)
	assert.Equal(t, "-0.13", rows[1][3])
	assert.Equal(t, "2.68", rows[1][4])
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		x      float64
		places int32
		want   string
	}{
		{0.5, 0, "1"},
		{-0.5, 0, "-1"},
		{1.005, 2, "1.01"},
		{123.456, 1, "123.5"},
		{7, 3, "7.000"},
		{math.NaN(), 2, "NaN"},
		{math.Inf(-1), 2, "-Inf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.x, tt.places))
	}
}

func TestNewCSVBadPath(t *testing.T) {
	t.Parallel()

	_, err := NewCSV(filepath.Join(t.TempDir(), "missing", "results.csv"), ';')
	assert.Error(t, err)
}
