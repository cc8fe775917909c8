package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"feedback-tool/internal/app"
	"feedback-tool/internal/feedback"
	"feedback-tool/internal/kafka"
	"feedback-tool/internal/logger"
	"feedback-tool/internal/router"
	"feedback-tool/internal/storage"
	"feedback-tool/internal/summary"
	"feedback-tool/web"
)

const (
	cfgPath         = "config/config.yaml"
	envPath         = ".env"
	shutdownTimeout = 10 * time.Second
)

func main() {
	// парсим конфиг
	c, err := app.NewConfig(cfgPath, envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error to parsing config: %v\n", err)
		os.Exit(1)
	}

	// init logger
	log, closeLog, err := logger.New(logger.Options{
		File:       c.CfgLog.File,
		Level:      c.CfgLog.Level,
		Production: c.IsProduction(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
		_ = closeLog()
	}()

	if err := run(c, log); err != nil {
		log.Errorw("Server stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(c *app.Config, log *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// init storage
	st, err := storage.Open(ctx, storage.Options{
		Driver:       c.CfgDB.Driver,
		Path:         c.CfgDB.Path,
		DSN:          c.CfgDB.DSN,
		MaxOpenConns: c.CfgDB.MaxOpenConns,
	}, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Errorw("Failed to close database", zap.Error(err))
		}
	}()

	if err := st.Init(ctx); err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// init summarizer
	var summarizer summary.Summarizer = summary.NewThemeSummarizer(log)
	if c.CfgRedis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     c.CfgRedis.Addr,
			Password: c.CfgRedis.Password,
			DB:       c.CfgRedis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warnw("Redis is unavailable, summaries will not be cached", zap.Error(err))
		}
		summarizer = summary.NewCachedSummarizer(summarizer, redisClient, log, c.CfgRedis.SummaryTTL)
	}

	if c.OpenAIAPIKey != "" {
		log.Infow("Summarization API key configured", "key", c.MaskedAPIKey())
	}

	// init events
	var events kafka.EventProducer = kafka.NopProducer{}
	if len(c.CfgKafka.Brokers) > 0 {
		events = kafka.NewProducer(c.CfgKafka.Brokers, c.CfgKafka.Topic, log)
	}
	defer func() {
		if err := events.Close(); err != nil {
			log.Warnw("Failed to close event producer", zap.Error(err))
		}
	}()

	handler := router.New(router.Deps{
		Logger:     log,
		Repo:       feedback.NewFeedbackRepository(st.DB, log),
		Summarizer: summarizer,
		Events:     events,
		Static:     web.Static(),
		Production: c.IsProduction(),
	})

	srv := &http.Server{
		Addr:         c.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("Server is running",
			"type", "START",
			"addr", c.Addr(),
			"environment", c.Environment,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infow("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
