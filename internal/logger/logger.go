package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	// File - путь к лог файлу, пустой путь отключает запись в файл
	File       string
	Level      string
	Production bool
}

// New собирает логгер, который пишет одинаковые строки вида
// "[2024-05-01T12:00:00.000Z] INFO: message" в stdout и в файл.
// Возвращаемая функция закрывает файл.
func New(opts Options) (*zap.SugaredLogger, func() error, error) {
	level, err := resolveLevel(opts)
	if err != nil {
		return nil, nil, err
	}

	encoder := zapcore.NewConsoleEncoder(encoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	closeFn := func() error { return nil }
	if opts.File != "" {
		file, err := openLogFile(opts.File)
		if err != nil {
			return nil, nil, err
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(file), level))
		closeFn = file.Close
	}

	zapLogger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())

	return zapLogger.Sugar(), closeFn, nil
}

func resolveLevel(opts Options) (zapcore.Level, error) {
	if opts.Level != "" {
		level, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return zapcore.InfoLevel, fmt.Errorf("log level %q: %w", opts.Level, err)
		}

		return level, nil
	}

	if opts.Production {
		return zapcore.ErrorLevel, nil
	}

	return zapcore.InfoLevel, nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + t.UTC().Format("2006-01-02T15:04:05.000Z07:00") + "]")
	}
	cfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(l.CapitalString() + ":")
	}
	cfg.ConsoleSeparator = " "
	cfg.CallerKey = zapcore.OmitKey

	return cfg
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}

	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}
