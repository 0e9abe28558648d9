package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AliMohammadiiii/PRS-sub001/pkg/config"
)

var (
	// Logger is the global structured logger.
	Logger *zap.Logger
	// Sugar supports printf-style logging.
	Sugar *zap.SugaredLogger
)

// Init builds the global logger from the logging config section.
func Init(cfg *config.LoggingConfig) error {
	level := parseLevel(cfg.Level)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var cores []zapcore.Core

	switch cfg.Output {
	case "file":
		file, err := getFileWriter(cfg.File)
		if err != nil {
			return err
		}
		fileEncoder := encoderConfig
		fileEncoder.EncodeLevel = zapcore.CapitalLevelEncoder // no color codes in files
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(fileEncoder),
			zapcore.AddSync(file),
			level,
		))
	case "both":
		file, err := getFileWriter(cfg.File)
		if err != nil {
			return err
		}
		fileEncoder := encoderConfig
		fileEncoder.EncodeLevel = zapcore.CapitalLevelEncoder
		cores = append(cores,
			zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), level),
			zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoder), zapcore.AddSync(file), level),
		)
	default: // console
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(os.Stdout),
			level,
		))
	}

	core := zapcore.NewTee(cores...)
	Logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	Sugar = Logger.Sugar()
	return nil
}

func getFileWriter(logFile string) (*os.File, error) {
	if logFile == "" {
		logFile = "logs/prs.log"
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func ensure() {
	if Logger == nil {
		// Tests and tools may log before Init; fall back to a dev logger.
		Logger, _ = zap.NewDevelopment(zap.AddCallerSkip(1))
		Sugar = Logger.Sugar()
	}
}

func Debug(msg string, fields ...zap.Field) {
	ensure()
	Logger.Debug(msg, fields...)
}

func Debugf(format string, args ...interface{}) {
	ensure()
	Sugar.Debugf(format, args...)
}

func Info(msg string, fields ...zap.Field) {
	ensure()
	Logger.Info(msg, fields...)
}

func Infof(format string, args ...interface{}) {
	ensure()
	Sugar.Infof(format, args...)
}

func Warn(msg string, fields ...zap.Field) {
	ensure()
	Logger.Warn(msg, fields...)
}

func Warnf(format string, args ...interface{}) {
	ensure()
	Sugar.Warnf(format, args...)
}

func Error(msg string, fields ...zap.Field) {
	ensure()
	Logger.Error(msg, fields...)
}

func Errorf(format string, args ...interface{}) {
	ensure()
	Sugar.Errorf(format, args...)
}

func Fatal(msg string, fields ...zap.Field) {
	ensure()
	Logger.Fatal(msg, fields...)
}

func Fatalf(format string, args ...interface{}) {
	ensure()
	Sugar.Fatalf(format, args...)
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// With returns a child logger carrying the given fields.
func With(fields ...zap.Field) *zap.Logger {
	ensure()
	return Logger.With(fields...)
}
