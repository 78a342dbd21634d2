package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const FormatConsole = "console"

type Options struct {
	ServiceName string
	Level       zerolog.Level
	// Format is "json" (default) or "console".
	Format    string
	WarnStack bool
	Output    io.Writer
}

// Logger writes zerolog events. Fields added through the With* helpers live
// on the context, so they survive the logger being rebuilt after config load.
type Logger struct {
	base      zerolog.Logger
	warnStack bool
}

type field struct {
	key   string
	value any
}

type fieldsKey struct{}

func New(opts Options) *Logger {
	level := opts.Level
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(opts.Format, FormatConsole) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	base := zerolog.New(out).Level(level).With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger()
	return &Logger{base: base, warnStack: opts.WarnStack}
}

// ParseLevel maps a config string to a zerolog level, falling back to info.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return appendFields(ctx, field{key: key, value: value})
}

// WithFields adds fields in key order.
func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	add := make([]field, 0, len(keys))
	for _, k := range keys {
		add = append(add, field{key: k, value: fields[k]})
	}
	return appendFields(ctx, add...)
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

func (l *Logger) WithUserID(ctx context.Context, userID string) context.Context {
	return l.WithField(ctx, "user_id", userID)
}

func (l *Logger) WithWarehouseID(ctx context.Context, warehouseID string) context.Context {
	return l.WithField(ctx, "warehouse_id", warehouseID)
}

func (l *Logger) WithRole(ctx context.Context, role string) context.Context {
	return l.WithField(ctx, "role", role)
}

func (l *Logger) WithOrderID(ctx context.Context, orderID string) context.Context {
	return l.WithField(ctx, "order_id", orderID)
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	emit(ctx, l.base.Debug(), msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	emit(ctx, l.base.Info(), msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	event := l.base.Warn()
	if l.warnStack && event.Enabled() {
		event = event.Str("stack", stackTrace())
	}
	emit(ctx, event, msg)
}

// Error always carries a stack trace.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	event := l.base.Error()
	if !event.Enabled() {
		return
	}
	if err != nil {
		event = event.Err(err)
	}
	emit(ctx, event.Str("stack", stackTrace()), msg)
}

func emit(ctx context.Context, event *zerolog.Event, msg string) {
	if event == nil {
		return
	}
	for _, f := range fieldsFrom(ctx) {
		event = event.Interface(f.key, f.value)
	}
	event.Msg(msg)
}

func fieldsFrom(ctx context.Context) []field {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).([]field)
	return fields
}

// appendFields copies the current fields before adding. A repeated key
// replaces the earlier value.
func appendFields(ctx context.Context, add ...field) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	current := fieldsFrom(ctx)
	next := make([]field, 0, len(current)+len(add))
	next = append(next, current...)
	for _, f := range add {
		replaced := false
		for i := range next {
			if next[i].key == f.key {
				next[i].value = f.value
				replaced = true
				break
			}
		}
		if !replaced {
			next = append(next, f)
		}
	}
	return context.WithValue(ctx, fieldsKey{}, next)
}

func stackTrace() string {
	return strings.TrimSpace(string(debug.Stack()))
}
