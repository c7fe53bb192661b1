package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLogger_WritesLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLogger(&buf, slog.LevelDebug)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)
	require.NoError(t, log.Sync())

	out := buf.String()
	for _, s := range []string{"DEBUG", "INFO", "WARN", "ERROR", "dbg", "inf", "wrn", "err", `"a": 1`, `"d": 4`} {
		assert.Contains(t, out, s)
	}
}

func TestZapLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLogger(&buf, slog.LevelWarn)

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestZapLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLogger(&buf, slog.LevelInfo).With("profile", "work")

	log.Info(context.Background(), "hello")

	assert.Contains(t, buf.String(), `"profile": "work"`)
}

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		level   string
		want    string
		wantErr bool
	}{
		{name: "text default", format: "", level: "", want: "msg=ping"},
		{name: "json", format: "json", level: "info", want: `"msg":"ping"`},
		{name: "zap", format: "zap", level: "debug", want: "ping"},
		{name: "bad format", format: "xml", wantErr: true},
		{name: "bad level", format: "text", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(tt.format, tt.level, &buf)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			log.Info(context.Background(), "ping")
			if z, ok := log.(*ZapLogger); ok {
				require.NoError(t, z.Sync())
			}
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
