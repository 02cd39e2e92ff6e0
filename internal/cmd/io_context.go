package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type ioKey struct{}

type loggerKey struct{}

type ioState struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func withIO(ctx context.Context, in io.Reader, out, err io.Writer) context.Context {
	return context.WithValue(ctx, ioKey{}, ioState{in: in, out: out, err: err})
}

func ioFromContext(ctx context.Context) ioState {
	if ctx != nil {
		if v, ok := ctx.Value(ioKey{}).(ioState); ok {
			return v
		}
	}
	return ioState{}
}

func stdinFromContext(ctx context.Context) io.Reader {
	if in := ioFromContext(ctx).in; in != nil {
		return in
	}
	return os.Stdin
}

func stdoutFromContext(ctx context.Context) io.Writer {
	if out := ioFromContext(ctx).out; out != nil {
		return out
	}
	return os.Stdout
}

func stderrFromContext(ctx context.Context) io.Writer {
	if err := ioFromContext(ctx).err; err != nil {
		return err
	}
	return os.Stderr
}

func withLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// loggerFromContext returns the command logger, or one that discards
// everything when none is set.
func loggerFromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newLogger logs at debug level to w when debug is set and discards
// otherwise.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})).With("app", "tabkit")
}
