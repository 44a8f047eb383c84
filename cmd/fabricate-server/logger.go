package main

import (
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/daniacca/fabricate/internal/fabricate"
)

// Logger is the server's console logger. The level is atomic and can be
// read or changed at runtime through /loglevel.
type Logger struct {
	*zap.SugaredLogger
	level zap.AtomicLevel
}

var _ fabricate.Logger = (*Logger)(nil)

// parseLogLevel maps a case-insensitive level name to a zap level. Unknown
// names, and levels above error, fall back to info.
func parseLogLevel(name string) zapcore.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}
	lvl, err := zapcore.ParseLevel(name)
	if err != nil || lvl > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return lvl
}

func NewLogger(level string) *Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), zapcore.DebugLevel)
	return newLogger(core, zap.NewAtomicLevelAt(parseLogLevel(level)))
}

// newLogger gates core, which must enable every level, behind level.
func newLogger(core zapcore.Core, level zap.AtomicLevel) *Logger {
	z := zap.New(core, zap.IncreaseLevel(level))
	return &Logger{SugaredLogger: z.Sugar(), level: level}
}

func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

// LevelHandler serves the level as JSON on GET and changes it on PUT, for
// example {"level": "debug"}.
func (l *Logger) LevelHandler() http.Handler {
	return l.level
}
