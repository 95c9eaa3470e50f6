package logging

import (
	"testing"

	"github.com/rustyeddy/pricer/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level  string
		format string
		want   zapcore.Level
	}{
		{"debug", "console", zapcore.DebugLevel},
		{"info", "json", zapcore.InfoLevel},
		{"warn", "", zapcore.WarnLevel},
		{"error", "json", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		l, err := New(tt.level, tt.format)
		require.NoError(t, err, tt.level)
		assert.True(t, l.Core().Enabled(tt.want))
		assert.False(t, l.Core().Enabled(tt.want-1))
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := New("loud", "json")
	assert.ErrorIs(t, err, errs.ErrConfiguration)

	_, err = New("info", "xml")
	assert.ErrorIs(t, err, errs.ErrConfiguration)
}
