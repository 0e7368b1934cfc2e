package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_WritesJSONToOutput(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })
	var buf bytes.Buffer

	l := New(Config{Level: "info", Output: &buf})
	l.Info().Str("investment_id", "inv-1").Msg("schedule computed")

	assert.Contains(t, buf.String(), `"investment_id":"inv-1"`)
	assert.Contains(t, buf.String(), `"message":"schedule computed"`)
}

func TestNew_LevelParsing(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	testCases := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			New(Config{Level: tc.level, Output: &bytes.Buffer{}})
			assert.Equal(t, tc.expected, zerolog.GlobalLevel())
		})
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })
	var buf bytes.Buffer

	l := New(Config{Level: "warn", Output: &buf})
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_PrettyOutput(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })
	var buf bytes.Buffer

	l := New(Config{Level: "info", Pretty: true, Output: &buf})
	l.Info().Msg("digest completed")

	assert.Contains(t, buf.String(), "digest completed")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestNop(t *testing.T) {
	l := Nop()
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}
