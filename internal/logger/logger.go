package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	rotationTime = 24 * time.Hour
	maxAge       = 7 * 24 * time.Hour
)

// Options controls logger construction. When File is set it receives a copy
// of every entry, rotated daily.
type Options struct {
	Level string
	Dev   bool
	File  string
}

func levelFromString(l string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a *zap.Logger. Dev selects a human readable console encoder,
// otherwise entries are JSON with ISO-8601 timestamps.
func New(opts Options) (*zap.Logger, error) {
	lvl := levelFromString(opts.Level)

	var encoder zapcore.Encoder
	if opts.Dev {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), lvl),
	}

	if opts.File != "" {
		writer, err := rotatelogs.New(
			opts.File+".%Y%m%d",
			rotatelogs.WithLinkName(opts.File),
			rotatelogs.WithRotationTime(rotationTime),
			rotatelogs.WithMaxAge(maxAge),
		)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(encoder.Clone(), zapcore.AddSync(writer), lvl))
	}

	zopts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if opts.Dev {
		zopts = append(zopts, zap.Development())
	}
	return zap.New(zapcore.NewTee(cores...), zopts...), nil
}
