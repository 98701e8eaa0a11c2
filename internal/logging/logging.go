// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package logging configures the structured logger of the live class service
// and carries request and job scoped attributes through a context.
package logging

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"slices"
	"strings"

	slogotel "github.com/remychantenay/slog-otel"
)

// ErrKey is the attribute key errors are logged under.
const ErrKey = "error"

type ctxKey string

const (
	slogFields      ctxKey = "slog_fields"
	logLevelDefault        = slog.LevelDebug

	// Entries carrying the critical priority page the on-call.
	priorityCritical = "critical"
)

// contextHandler adds the attributes stored by AppendCtx to every record.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// AppendCtx returns a copy of parent whose log records also carry attr.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	attrs, _ := parent.Value(slogFields).([]slog.Attr)
	// Clone so sibling contexts never share a backing array.
	return context.WithValue(parent, slogFields, append(slices.Clone(attrs), attr))
}

// handlerOptions reads LOG_LEVEL and LOG_ADD_SOURCE.
func handlerOptions(getenv func(string) string) *slog.HandlerOptions {
	level := logLevelDefault
	if raw := strings.TrimSpace(getenv("LOG_LEVEL")); raw != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(raw)); err == nil {
			level = parsed
		}
	}

	switch strings.ToLower(getenv("LOG_ADD_SOURCE")) {
	case "true", "t", "1":
		return &slog.HandlerOptions{Level: level, AddSource: true}
	default:
		return &slog.HandlerOptions{Level: level}
	}
}

// NewHandler builds the JSON handler chain. trace_id and span_id are copied
// from the active span, if any.
func NewHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return contextHandler{slogotel.OtelHandler{Next: slog.NewJSONHandler(w, opts)}}
}

// InitStructureLogConfig installs the service logger as the slog default.
func InitStructureLogConfig() slog.Handler {
	opts := handlerOptions(os.Getenv)
	h := NewHandler(os.Stdout, opts)

	log.SetFlags(log.Llongfile)
	slog.SetDefault(slog.New(h))

	slog.Info("log config",
		"logLevel", opts.Level,
		"addSource", opts.AddSource,
	)
	return h
}

// Priority tags an entry with a priority class.
func Priority(level string) slog.Attr {
	return slog.String("priority", level)
}

// PriorityCritical marks failures that need a human, such as a provider
// that keeps failing after every retry.
func PriorityCritical() slog.Attr {
	return Priority(priorityCritical)
}
