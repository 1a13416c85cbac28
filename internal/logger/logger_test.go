package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
		ok   bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{"info", zapcore.InfoLevel, true},
		{"warn", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"verbose", zapcore.InfoLevel, false},
		{"", zapcore.InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := parseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestNew(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		log, err := New("debug", pretty)
		require.NoError(t, err)
		log.Debug("probe", String("k", "v"), Int64("n", 1))
		log.Info("probe", Int("n", 2))
	}
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Error("dropped", Error(assert.AnError))
	assert.NoError(t, log.Sync())
}
