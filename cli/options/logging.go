package options

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nspcc-dev/neo-txauth/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// HandleLoggingParams creates a console logger with the configured level
// (debug wins over it). Logs go to stderr unless the configuration has
// a LogPath, in which case the file is created along with its directory and
// the returned closer releases it.
func HandleLoggingParams(debug bool, cfg config.ApplicationConfiguration) (*zap.Logger, *zap.AtomicLevel, func() error, error) {
	level := zapcore.InfoLevel
	if cfg.LogLevel != "" {
		var err error
		if level, err = zapcore.ParseLevel(cfg.LogLevel); err != nil {
			return nil, nil, nil, fmt.Errorf("log setting: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	var (
		sink   zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
		closer func() error
	)
	if cfg.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0755); err != nil {
			return nil, nil, nil, fmt.Errorf("could not create dir for logger: %w", err)
		}
		ws, closeSink, err := zap.Open(cfg.LogPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("could not open log file: %w", err)
		}
		sink = ws
		closer = func() error {
			closeSink()
			return nil
		}
	}

	enc := zap.NewProductionEncoderConfig()
	enc.EncodeDuration = zapcore.StringDurationEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl := zap.NewAtomicLevelAt(level)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), sink, lvl)
	return zap.New(core), &lvl, closer, nil
}
