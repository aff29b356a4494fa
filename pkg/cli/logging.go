package cli

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// debugEnabled is toggled by NewLogger from Config.Debug.
var debugEnabled atomic.Bool

// Logger builds a slog.Logger writing text or JSON records to w.
func Logger(w io.Writer, json bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewLogger builds the session logger described by cfg. Records go to a
// rotating file when cfg.LogFile is set and to fallback otherwise. Every
// record carries a random session id. The returned closer releases the log
// file and is safe to call when no file is open. cfg.Debug always enables
// debug records, whatever cfg.LogLevel says.
func NewLogger(cfg Config, fallback io.Writer) (*slog.Logger, io.Closer) {
	debugEnabled.Store(cfg.Debug)

	w := fallback
	var closer io.Closer = nopCloser{}
	if cfg.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
		}
		w, closer = lj, lj
	}
	level := cfg.LogLevel
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := Logger(w, cfg.LogJSON, level).With(slog.String("session", uuid.NewString()))
	return logger, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// debugf emits a debug record when RIMP_DEBUG is on.
func debugf(format string, args ...any) {
	if debugEnabled.Load() {
		slog.Debug(fmt.Sprintf(format, args...))
	}
}
