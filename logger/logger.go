package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where log entries go.
type Config struct {
	Path    string `yaml:"path"`    // JSON log file, rotated; empty disables file logging
	Console bool   `yaml:"console"` // human readable entries on stderr
	Debug   bool   `yaml:"debug"`   // console threshold Debug instead of Info
}

// New builds a logger teeing a rotated JSON file core (Info and above) with an
// optional console core. With neither configured it returns a no-op logger.
func New(config Config) *zap.Logger {
	var cores []zapcore.Core
	if config.Path != "" {
		rotator := &lumberjack.Logger{
			Filename:   config.Path,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(EncoderConfig()), zapcore.AddSync(rotator), zap.InfoLevel))
	}
	if config.Console {
		level := zap.InfoLevel
		if config.Debug {
			level = zap.DebugLevel
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.Lock(os.Stderr), level))
	}
	if len(cores) == 0 {
		return zap.NewNop()
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

// EncoderConfig is the JSON entry layout.
func EncoderConfig() zapcore.EncoderConfig {
	config := zap.NewProductionEncoderConfig()
	config.TimeKey = "timestamp"
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.MessageKey = "message"
	config.LevelKey = "level"
	config.EncodeLevel = zapcore.CapitalLevelEncoder
	return config
}
