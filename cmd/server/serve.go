package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/VitaminP8/graphql-basics/graph"
	"github.com/VitaminP8/graphql-basics/internal/config"
	"github.com/VitaminP8/graphql-basics/internal/log"
	"github.com/VitaminP8/graphql-basics/internal/metrics"
	"github.com/VitaminP8/graphql-basics/internal/storage/memory"
	"github.com/VitaminP8/graphql-basics/internal/subscription"
)

func newLogger() logr.Logger {
	return stdr.New(stdlog.New(os.Stderr, "", stdlog.LstdFlags))
}

// newResolver собирает резолвер поверх хранилищ, заполненных из seed-файла
// (пустой путь означает встроенный набор данных)
func newResolver(seedFile string) (*graph.Resolver, error) {
	seed, err := memory.LoadSeed(seedFile)
	if err != nil {
		return nil, err
	}

	users, posts, comments := memory.NewStorages(seed)

	return &graph.Resolver{
		UserStore:           users,
		PostStore:           posts,
		CommentStore:        comments,
		SubscriptionManager: subscription.NewSubscriptionManager(),
	}, nil
}

func newRouter(resolver *graph.Resolver, cfg *config.Config, reg *prometheus.Registry, logger logr.Logger) http.Handler {
	srv := handler.NewDefaultServer(graph.NewExecutableSchema(graph.Config{
		Resolvers: resolver,
	}))
	srv.SetErrorPresenter(graph.ErrorPresenter)
	srv.Use(metrics.New(reg))

	metrics.RegisterStoreGauges(reg, map[string]metrics.Counter{
		"users":    resolver.UserStore,
		"posts":    resolver.PostStore,
		"comments": resolver.CommentStore,
	})

	mux := http.NewServeMux()
	mux.Handle("/query", srv)
	if cfg.Playground {
		// Страница с тестовым интерфейсом Playground
		mux.Handle("/", playground.Handler("GraphQL Playground", "/query"))
	}
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return log.Middleware(logger, mux)
}

func runServer(cmd *cobra.Command) error {
	logger := newLogger()

	// .env подгружается до чтения конфигурации, чтобы viper увидел переменные
	config.LoadEnv(logger)

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	stdr.SetVerbosity(cfg.Verbosity)

	resolver, err := newResolver(cfg.SeedFile)
	if err != nil {
		return errors.Wrap(err, "load seed")
	}
	logger.Info("storage seeded",
		"users", resolver.UserStore.Count(),
		"posts", resolver.PostStore.Count(),
		"comments", resolver.CommentStore.Count())

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(resolver, cfg, reg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", cfg.Addr, "playground", cfg.Playground)
		// блокируется до server.Shutdown() или фатальной ошибки
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}

	logger.Info("server stopped")
	return nil
}
