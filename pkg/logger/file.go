package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOutput mirrors log entries into a size-rotated JSON file.
type FileOutput struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// WithFile enables the rotated file output. An empty path disables it.
func WithFile(out FileOutput) Option {
	return func(o *options) {
		o.file = &out
	}
}

func (f *FileOutput) core(encCfg zapcore.EncoderConfig, level zap.AtomicLevel) zapcore.Core {
	// colored level names are for terminals only
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   f.Path,
		MaxSize:    f.MaxSizeMB,
		MaxBackups: f.MaxBackups,
		MaxAge:     f.MaxAgeDays,
	})
	return zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), writer, level)
}
