// Package logger is the process-wide structured logger.
//
//	logger.Init(cfg.App.Env)
//	logger.Info("server_started", "port", port)
//	logger.Error("failed to save", err)
//
// Arguments after the message are key/value pairs. A lone trailing value (usually
// an error) is logged under "error".
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

func init() {
	setup("production", os.Stderr)
}

// Init configures the logger for env. "development" and "local" get a console
// writer at debug level, everything else JSON at info level.
func Init(env string) {
	mu.Lock()
	defer mu.Unlock()
	setup(env, os.Stderr)
}

// SetOutput redirects output, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = log.Output(w)
}

func setup(env string, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.ErrorFieldName = "error"

	level := zerolog.InfoLevel
	var w io.Writer = out
	switch strings.ToLower(env) {
	case "development", "dev", "local":
		level = zerolog.DebugLevel
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	case "test":
		level = zerolog.WarnLevel
	}

	log = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

func Debug(msg string, kv ...any) { emit(current().Debug(), msg, kv) }
func Info(msg string, kv ...any)  { emit(current().Info(), msg, kv) }
func Warn(msg string, kv ...any)  { emit(current().Warn(), msg, kv) }
func Error(msg string, kv ...any) { emit(current().Error(), msg, kv) }

// Fatal logs and exits the process.
func Fatal(msg string, kv ...any) { emit(current().Fatal(), msg, kv) }

func emit(e *zerolog.Event, msg string, kv []any) {
	if e == nil {
		return
	}
	for i := 0; i < len(kv); i += 2 {
		if i+1 >= len(kv) {
			addValue(e, "error", kv[i])
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		addValue(e, key, kv[i+1])
	}
	e.Msg(msg)
}

func addValue(e *zerolog.Event, key string, v any) {
	switch val := v.(type) {
	case error:
		e.AnErr(key, val)
	case string:
		e.Str(key, val)
	case int:
		e.Int(key, val)
	case uint:
		e.Uint(key, val)
	case float64:
		e.Float64(key, val)
	case bool:
		e.Bool(key, val)
	case time.Duration:
		e.Dur(key, val)
	case fmt.Stringer:
		e.Stringer(key, val)
	default:
		e.Interface(key, val)
	}
}
