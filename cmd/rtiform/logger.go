package main

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alnah/go-rtiform/internal/config"
)

// newLogger builds the CLI logger writing to w.
// --verbose forces debug and --quiet forces error, otherwise log.level applies.
func newLogger(lc config.LogConfig, common commonFlags, w io.Writer) (*zap.Logger, error) {
	json := strings.EqualFold(lc.Format, config.LogFormatJSON)

	zc := zap.NewDevelopmentConfig()
	if json {
		zc = zap.NewProductionConfig()
	}

	level := zapcore.WarnLevel
	if lc.Level != "" {
		l, err := zapcore.ParseLevel(lc.Level)
		if err != nil {
			return nil, fmt.Errorf("%w: log.level: %v", config.ErrInvalidValue, err)
		}
		level = l
	}
	switch {
	case common.verbose:
		level = zapcore.DebugLevel
	case common.quiet:
		level = zapcore.ErrorLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	var enc zapcore.Encoder
	if json {
		enc = zapcore.NewJSONEncoder(zc.EncoderConfig)
	} else {
		enc = zapcore.NewConsoleEncoder(zc.EncoderConfig)
	}

	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zc.Level)), nil
}
