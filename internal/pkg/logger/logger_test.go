package logger

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// resetLogger resets the global logger state for testing
func resetLogger() {
	baseLogger = nil
	initBaseLoggerOnce = sync.Once{}
}

// observe replaces the global logger with one recording every entry.
func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	baseLogger = zap.New(core).Sugar()
	t.Cleanup(resetLogger)

	return logs
}

func TestInit(t *testing.T) {
	t.Run("successful initialization with valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			resetLogger()
			require.NoError(t, Init(level), level)
			assert.NotNil(t, baseLogger, level)
		}
	})

	t.Run("error with invalid level", func(t *testing.T) {
		resetLogger()
		err := Init("invalid")
		assert.Error(t, err)
		assert.Nil(t, baseLogger)
	})

	t.Run("init only once", func(t *testing.T) {
		resetLogger()

		require.NoError(t, Init("debug"))
		firstLogger := baseLogger

		require.NoError(t, Init("error"))
		assert.Equal(t, firstLogger, baseLogger, "Init() should only initialize once")
	})
}

func TestLog(t *testing.T) {
	t.Run("entries carry their level and fields", func(t *testing.T) {
		logs := observe(t)

		Debug(t.Context(), "debug message", "key", "value")
		Info(t.Context(), "info message")
		Warn(t.Context(), "warn message")
		Error(t.Context(), "error message")

		entries := logs.All()
		require.Len(t, entries, 4)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, "value", entries[0].ContextMap()["key"])
		assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
		assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	})

	t.Run("entries under a span carry trace and span ids", func(t *testing.T) {
		logs := observe(t)

		tp := sdktrace.NewTracerProvider()
		defer tp.Shutdown(context.Background())

		ctx, span := tp.Tracer("test").Start(t.Context(), "test-span")
		defer span.End()

		Info(ctx, "traced message")

		fields := logs.All()[0].ContextMap()
		assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
		assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
	})

	t.Run("entries without a span carry no trace ids", func(t *testing.T) {
		logs := observe(t)

		Info(t.Context(), "plain message")

		assert.NotContains(t, logs.All()[0].ContextMap(), "trace_id")
	})

	t.Run("logging before init is a no-op", func(t *testing.T) {
		resetLogger()

		assert.NotPanics(t, func() {
			Warn(t.Context(), "dropped", "key", "value")
		})
	})
}

func TestDerive(t *testing.T) {
	t.Run("derived context logger keeps its fields", func(t *testing.T) {
		logs := observe(t)

		ctx := Derive(t.Context(), "component", "ogmios")
		ctx = Derive(ctx, "request", "42")
		Info(ctx, "derived message", "key", "value")

		fields := logs.All()[0].ContextMap()
		assert.Equal(t, "ogmios", fields["component"])
		assert.Equal(t, "42", fields["request"])
		assert.Equal(t, "value", fields["key"])
	})

	t.Run("derive with no key-value pairs stores the current logger", func(t *testing.T) {
		observe(t)

		ctx := Derive(t.Context())

		logger, ok := ctx.Value(ctxKey).(*zap.SugaredLogger)
		assert.True(t, ok)
		assert.Same(t, baseLogger, logger)
	})
}

func TestSync(t *testing.T) {
	t.Run("sync after init", func(t *testing.T) {
		resetLogger()
		require.NoError(t, Init("info"))

		// Sync may return an error for stdout, it must not panic.
		assert.NotPanics(t, func() {
			Sync()
		})
	})

	t.Run("sync without init panics", func(t *testing.T) {
		resetLogger()

		assert.Panics(t, func() {
			Sync()
		}, "Sync() should panic when logger is not initialized")
	})
}

func TestPanic(t *testing.T) {
	observe(t)

	assert.Panics(t, func() {
		Panic(t.Context(), "panic message", "key", "value")
	}, "Panic() should panic")
}

func TestFatal(t *testing.T) {
	t.Run("fatal exits with code 1", func(t *testing.T) {
		// This subprocess will execute the Fatal call.
		if os.Getenv("TEST_FATAL_SUBPROCESS") == "1" {
			_ = Init("debug")
			Fatal(context.Background(), "fatal error for test", "key", "value")
			return
		}

		// Build a command that re-runs this test in a subprocess.
		cmd := exec.Command(os.Args[0], "-test.run=TestFatal")
		cmd.Env = append(os.Environ(), "TEST_FATAL_SUBPROCESS=1")

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err := cmd.Run()
		exitErr, ok := err.(*exec.ExitError)
		require.True(t, ok, "the subprocess should exit with a non-zero status")
		assert.Equal(t, 1, exitErr.ExitCode(), "logger.Fatal should terminate with exit code 1")
		assert.Contains(t, stdout.String(), `"level":"fatal"`)
		assert.Contains(t, stdout.String(), `"key":"value"`)
	})
}
