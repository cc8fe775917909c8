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

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"feedback-tool/internal/analytics"
	"feedback-tool/internal/app"
	"feedback-tool/internal/kafka"
	"feedback-tool/internal/logger"
	"feedback-tool/internal/storage"
)

const (
	cfgPath = "config/config.yaml"
	envPath = ".env"
)

// events читает топик событий отзывов, ведет дневную статистику
// и отдает ее по GET /activity
func main() {
	c, err := app.NewConfig(cfgPath, envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error to parsing config: %v\n", err)
		os.Exit(1)
	}

	log, closeLog, err := logger.New(logger.Options{
		File:       c.CfgLog.File,
		Level:      c.CfgLog.Level,
		Production: c.IsProduction(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = closeLog() }()

	if len(c.CfgKafka.Brokers) == 0 {
		log.Errorw("KAFKA_BROKERS is not set, nothing to consume")
		_ = closeLog()
		os.Exit(1)
	}

	if err := run(c, log); err != nil {
		log.Errorw("Events service stopped with error", zap.Error(err))
		_ = closeLog()
		os.Exit(1)
	}
}

func run(c *app.Config, log *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	st, err := storage.Open(ctx, storage.Options{
		Driver:       c.CfgDB.Driver,
		Path:         c.CfgDB.Path,
		DSN:          c.CfgDB.DSN,
		MaxOpenConns: c.CfgDB.MaxOpenConns,
	}, log)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Init(ctx); err != nil {
		return err
	}

	// Init Kafka Consumer
	consumer := kafka.NewConsumer(c.CfgKafka.Brokers, c.CfgKafka.Topic, c.CfgKafka.GroupID, log)
	defer consumer.Close()

	repo := analytics.NewRepository(st.DB, log)
	service := analytics.NewService(repo, log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.Consume(ctx, service.ProcessEvent)
	}()

	// Init HTTP server
	handler := analytics.NewHandler(service, log)
	r := mux.NewRouter()
	r.HandleFunc("/activity", handler.GetActivity).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:         c.EventsAddr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("Starting events service",
			"addr", c.EventsAddr(),
			"topic", c.CfgKafka.Topic,
			"group", c.CfgKafka.GroupID,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		stop()
		<-done
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	<-done

	return err
}
