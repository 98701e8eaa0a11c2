// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendCtx(t *testing.T) {
	t.Run("nil parent", func(t *testing.T) {
		//nolint:staticcheck // a nil parent is tolerated
		ctx := AppendCtx(nil, slog.String("live_class_uid", "lc-1"))

		attrs, ok := ctx.Value(slogFields).([]slog.Attr)
		require.True(t, ok)
		assert.Equal(t, []slog.Attr{slog.String("live_class_uid", "lc-1")}, attrs)
	})

	t.Run("accumulates attributes", func(t *testing.T) {
		ctx := AppendCtx(context.Background(), slog.String("subject", "lfx.live-class.jobs.reminder-sweep"))
		ctx = AppendCtx(ctx, slog.Int("attempt", 2))

		attrs := ctx.Value(slogFields).([]slog.Attr)
		require.Len(t, attrs, 2)
		assert.Equal(t, "subject", attrs[0].Key)
		assert.Equal(t, "attempt", attrs[1].Key)
	})

	t.Run("siblings do not see each other", func(t *testing.T) {
		parent := AppendCtx(context.Background(), slog.String("account", "training"))
		parent = AppendCtx(parent, slog.String("meeting_uuid", "abc=="))

		left := AppendCtx(parent, slog.String("member", "ada@example.com"))
		right := AppendCtx(parent, slog.String("member", "grace@example.com"))

		leftAttrs := left.Value(slogFields).([]slog.Attr)
		rightAttrs := right.Value(slogFields).([]slog.Attr)
		assert.Equal(t, "ada@example.com", leftAttrs[2].Value.String())
		assert.Equal(t, "grace@example.com", rightAttrs[2].Value.String())
		assert.Len(t, parent.Value(slogFields).([]slog.Attr), 2)
	})
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var entry map[string]any
		require.NoError(t, dec.Decode(&entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestHandler_AddsContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := AppendCtx(context.Background(), slog.String("live_class_uid", "lc-1"))
	logger.InfoContext(ctx, "recording processed")
	logger.With("component", "ingestor").WarnContext(ctx, "passcode missing", PriorityCritical())

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)

	assert.Equal(t, "recording processed", entries[0]["msg"])
	assert.Equal(t, "lc-1", entries[0]["live_class_uid"])

	assert.Equal(t, "lc-1", entries[1]["live_class_uid"], "derived loggers keep context attributes")
	assert.Equal(t, "ingestor", entries[1]["component"])
	assert.Equal(t, "critical", entries[1]["priority"])
}

func TestHandlerOptions(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantLevel  slog.Level
		wantSource bool
	}{
		{name: "defaults", wantLevel: slog.LevelDebug},
		{name: "info", env: map[string]string{"LOG_LEVEL": "info"}, wantLevel: slog.LevelInfo},
		{name: "warn upper case", env: map[string]string{"LOG_LEVEL": "WARN"}, wantLevel: slog.LevelWarn},
		{name: "error", env: map[string]string{"LOG_LEVEL": "error"}, wantLevel: slog.LevelError},
		{name: "unknown level", env: map[string]string{"LOG_LEVEL": "verbose"}, wantLevel: slog.LevelDebug},
		{name: "source enabled", env: map[string]string{"LOG_ADD_SOURCE": "true"}, wantLevel: slog.LevelDebug, wantSource: true},
		{name: "source shorthand", env: map[string]string{"LOG_ADD_SOURCE": "1"}, wantLevel: slog.LevelDebug, wantSource: true},
		{name: "source disabled", env: map[string]string{"LOG_ADD_SOURCE": "no"}, wantLevel: slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := handlerOptions(func(key string) string { return tt.env[key] })
			assert.Equal(t, tt.wantLevel, opts.Level)
			assert.Equal(t, tt.wantSource, opts.AddSource)
		})
	}
}

func TestInitStructureLogConfig(t *testing.T) {
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })
	t.Setenv("LOG_LEVEL", "warn")

	h := InitStructureLogConfig()
	require.NotNil(t, h)

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
}
