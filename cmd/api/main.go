package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/marcelsud/salessuite-connector/action"
	"github.com/marcelsud/salessuite-connector/config"
	"github.com/marcelsud/salessuite-connector/event"
	eventredis "github.com/marcelsud/salessuite-connector/event/redis"
	"github.com/marcelsud/salessuite-connector/internal/http/chi"
	"github.com/marcelsud/salessuite-connector/mapper"
	"github.com/marcelsud/salessuite-connector/metrics"
	"github.com/marcelsud/salessuite-connector/options"
	"github.com/marcelsud/salessuite-connector/routes"
	"github.com/marcelsud/salessuite-connector/salessuite"
	"github.com/marcelsud/salessuite-connector/trigger"
	triggerredis "github.com/marcelsud/salessuite-connector/trigger/redis"
)

const TIMEOUT = 30 * time.Second

/*
 * main wires the packages together: config, redis, the SalesSuite client,
 * the trigger lifecycle and the HTTP layer. Imports only go downwards.
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	logger := chi.NewLogger()

	repo, err := eventredis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer repo.Close(ctx)

	exporter, err := metrics.NewOTelExporter(metrics.NewRedisCollector(repo.GetClient()))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer exporter.Shutdown(context.Background())

	client := salessuite.NewClient(
		salessuite.Credentials{BaseURL: cfg.SalesSuiteBaseURL, APIKey: cfg.SalesSuiteAPIKey},
		salessuite.WithTimeout(cfg.HTTPTimeout()),
	)

	lifecycle := trigger.NewLifecycle(client, triggerredis.NewStateStore(repo.GetClient()), logger)
	lifecycle.Recorder = exporter
	lifecycle.DeleteAttempts = cfg.DeleteAttempts
	lifecycle.DeleteBackoff = cfg.DeleteBackoff()

	loader := routes.NewLoader()
	if err := loader.Load(cfg.RoutesFile); err != nil {
		logger.Warn().Err(err).Str("file", cfg.RoutesFile).Msg("no production routes loaded")
	} else {
		created, err := loader.ActivateAll(ctx, lifecycle, cfg.PublicURL)
		if err != nil {
			logger.Error().Err(err).Msg("activating routes")
		}
		logger.Info().Strs("created", created).Int("routes", len(loader.List())).Msg("routes activated")
	}

	r := chi.Handlers(ctx, chi.Services{
		Lifecycle: lifecycle,
		Events:    event.NewService(repo),
		Actions:   action.NewRouter(client),
		Fields:    mapper.NewBuilder(client),
		Options:   options.NewLoader(client),
		Metrics:   exporter.ServeHTTP(),
		PublicURL: cfg.PublicURL,
	}, logger)
	http.Handle("/", r)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      http.DefaultServeMux,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	fmt.Printf("Listening on port %s\n", cfg.Port)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		fmt.Println(err)
		return
	}
	err = <-errShutdown
	if err != nil {
		fmt.Println(err)
		return
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
