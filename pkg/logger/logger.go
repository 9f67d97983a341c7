package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/leduxro-prog/erp-dashboard-sub012/pkg/env"
)

// Options configures the structured logger.
type Options struct {
	ServiceName string
	Level       zerolog.Level
	WarnStack   bool
	Output      io.Writer
}

// Logger wraps zerolog with a context-carried sub-logger so request- and
// transaction-scoped fields follow the call chain without threading a logger
// through every signature.
type Logger struct {
	base      *zerolog.Logger
	warnStack bool
}

type ctxKey struct{}

func New(opts Options) *Logger {
	level := opts.Level
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	base := zerolog.New(resolveOutput(opts.Output)).
		With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger().
		Level(level)

	zerolog.TimeFieldFormat = time.RFC3339Nano

	return &Logger{
		base:      &base,
		warnStack: opts.WarnStack,
	}
}

// LOG_FORMAT=console switches to the human-readable writer for local runs;
// everything else stays JSON.
func resolveOutput(out io.Writer) io.Writer {
	if out == nil {
		out = os.Stdout
	}
	if env.Get("LOG_FORMAT", "json") == "console" {
		return zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			NoColor:    false,
		}
	}
	return out
}

// ParseLevel maps a config string to a zerolog level, defaulting to info on
// anything unrecognized.
func ParseLevel(value string) zerolog.Level {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(trimmed)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) fromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return l.base
	}
	if entry, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
		return entry
	}
	return l.base
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	entry := l.fromContext(ctx).With().Interface(key, value).Logger()
	return context.WithValue(ctx, ctxKey{}, &entry)
}

func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	builder := l.fromContext(ctx).With()
	for k, v := range fields {
		builder = builder.Interface(k, v)
	}
	entry := builder.Logger()
	return context.WithValue(ctx, ctxKey{}, &entry)
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

func (l *Logger) WithCustomerID(ctx context.Context, customerID string) context.Context {
	return l.WithField(ctx, "customer_id", customerID)
}

func (l *Logger) WithCheckoutID(ctx context.Context, checkoutID string) context.Context {
	return l.WithField(ctx, "checkout_id", checkoutID)
}

func (l *Logger) WithTransactionID(ctx context.Context, txID string) context.Context {
	return l.WithField(ctx, "transaction_id", txID)
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	l.fromContext(ctx).Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	l.fromContext(ctx).Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	event := l.fromContext(ctx).Warn()
	if l.warnStack {
		event = event.Str("stack", stackTrace())
	}
	event.Msg(msg)
}

func (l *Logger) Error(ctx context.Context, msg string, err error) {
	event := l.fromContext(ctx).Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Str("stack", stackTrace()).Msg(msg)
}

func stackTrace() string {
	return strings.TrimSpace(string(debug.Stack()))
}
