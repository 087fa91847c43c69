package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/anvilbuild/anvil/pkg/option"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		literal string
		want    zerolog.Level
	}{
		{literal: "trace", want: zerolog.TraceLevel},
		{literal: "debug", want: zerolog.DebugLevel},
		{literal: "info", want: zerolog.InfoLevel},
		{literal: "warn", want: zerolog.WarnLevel},
		{literal: "error", want: zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			got, err := ParseLevel(tt.literal)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLevelRejectsUnknownLiterals(t *testing.T) {
	for _, literal := range []string{"", "verbose", "INFO", "warning"} {
		_, err := ParseLevel(literal)
		var enumErr *option.InvalidEnumValueError
		require.ErrorAs(t, err, &enumErr, "literal %q", literal)
		assert.Equal(t, "--level", enumErr.Enum)
		assert.Equal(t, Levels, enumErr.Legal)
	}
}

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("resolving global options")
			},
			wantLogs: []string{
				"anvil • resolving global options",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.InfoLevel)

			// Perform operation
			tt.op(t, logger)

			// Check output
			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	// Create logger
	logger := New(io.Discard, zerolog.InfoLevel)

	// Add to context
	ctx := context.Background()
	ctx = NewContext(ctx, logger)

	// Get from context
	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	// Check panic on missing logger
	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}
