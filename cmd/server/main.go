package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/VinothKuppanna/pigeon-maps/configs"
	"github.com/VinothKuppanna/pigeon-maps/di"
	"github.com/VinothKuppanna/pigeon-maps/internal/endpoints/healthcheck"
	"github.com/VinothKuppanna/pigeon-maps/internal/middleware/logging"
	"github.com/VinothKuppanna/pigeon-maps/pkg/data"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/nsqio/go-nsq"
)

func main() {
	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "path to the YAML config file")
	flag.Parse()

	var logger log.Logger
	logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config, err := configs.Load(ctx, *configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger = level.NewFilter(logger, levelOption(config.LogLevel))
	_ = level.Info(logger).Log("msg", "starting", "config", config)

	var publisher data.Publisher
	if config.NsqdAddress != "" {
		producer, err := nsq.NewProducer(config.NsqdAddress, nsq.NewConfig())
		if err != nil {
			_ = level.Error(logger).Log("msg", "failed to create nsq producer", "err", err)
			os.Exit(1)
		}
		defer producer.Stop()
		publisher = producer
	}

	app, err := di.InitApplication(config, logger, publisher)
	if err != nil {
		_ = level.Error(logger).Log("msg", "failed to initialise", "err", err)
		os.Exit(1)
	}
	defer app.Store.Close()

	router := mux.NewRouter()
	logging.New(publisher, logger).Setup(router)
	healthcheck.SetupRouts(router, app.Store, app.Stats)
	app.Sessions.SetupRouts(router)

	handler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(router)
	handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(handler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		_ = level.Info(logger).Log("msg", "listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			_ = level.Error(logger).Log("msg", "server failed", "err", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	_ = level.Info(logger).Log("msg", "shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		_ = level.Error(logger).Log("msg", "forced shutdown", "err", err)
	}
	_ = level.Info(logger).Log("msg", "stopped", "sessions", app.Store.Count())
}

func levelOption(name string) level.Option {
	switch strings.ToLower(name) {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}
