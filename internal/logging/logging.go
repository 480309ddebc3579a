// Package logging builds the zap logger cdwe writes diagnostics with.
//
// stdout is evaluated by the calling shell, so every log line goes to stderr (or the
// writer given to New) in console format without timestamps or caller information.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLevel is the environment variable that overrides the log level.
const EnvLevel = "CDWE_LOG"

// Config holds logging configuration.
type Config struct {
	Level   string // debug, info, warn, error; empty means warn
	Verbose bool   // forces debug
}

// FromEnv returns a Config whose level comes from CDWE_LOG.
func FromEnv(verbose bool) Config {
	return Config{Level: os.Getenv(EnvLevel), Verbose: verbose}
}

// ParseLevel converts cfg into a zap level. Unknown names fall back to warn.
func ParseLevel(cfg Config) zapcore.Level {
	if cfg.Verbose {
		return zapcore.DebugLevel
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil || cfg.Level == "" {
		return zapcore.WarnLevel
	}
	return level
}

// New creates a console logger writing to w. A nil w means stderr.
func New(cfg Config, w io.Writer) *zap.Logger {
	if w == nil {
		w = os.Stderr
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	encCfg.NameKey = "logger"
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(ParseLevel(cfg)),
	)
	return zap.New(core).Named("cdwe")
}
