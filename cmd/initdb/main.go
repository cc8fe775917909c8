package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"feedback-tool/internal/app"
	"feedback-tool/internal/logger"
	"feedback-tool/internal/storage"
)

const (
	cfgPath     = "config/config.yaml"
	envPath     = ".env"
	initTimeout = 30 * time.Second
)

// initdb создает схему и завершается
func main() {
	c, err := app.NewConfig(cfgPath, envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error to parsing config: %v\n", err)
		os.Exit(1)
	}

	// уровень info даже в production: вывод нужен оператору
	level := c.CfgLog.Level
	if level == "" {
		level = "info"
	}
	log, closeLog, err := logger.New(logger.Options{File: c.CfgLog.File, Level: level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	if err := initSchema(ctx, c, log); err != nil {
		log.Errorw("Database initialization failed", zap.Error(err))
		_ = closeLog()
		os.Exit(1)
	}

	log.Infow("Database initialization completed")
}

func initSchema(ctx context.Context, c *app.Config, log *zap.SugaredLogger) error {
	st, err := storage.Open(ctx, storage.Options{
		Driver:       c.CfgDB.Driver,
		Path:         c.CfgDB.Path,
		DSN:          c.CfgDB.DSN,
		MaxOpenConns: c.CfgDB.MaxOpenConns,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Errorw("Failed to close database", zap.Error(err))
		}
	}()

	return st.Init(ctx)
}
