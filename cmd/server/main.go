package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Clark-Hu/cinema-catalog/db"
	"github.com/Clark-Hu/cinema-catalog/internal/config"
	httpserver "github.com/Clark-Hu/cinema-catalog/internal/http"
	"github.com/Clark-Hu/cinema-catalog/internal/logger"
	"github.com/Clark-Hu/cinema-catalog/internal/repository"
	"github.com/Clark-Hu/cinema-catalog/internal/service"
	"github.com/Clark-Hu/cinema-catalog/internal/store"
)

const migrationsDir = "migrations"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := &cli.App{
		Name:  "cinema-catalog",
		Usage: "REST API for movies, directors and actors",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "load variables from this .env file before reading the environment",
				EnvVars: []string{"ENV_FILE"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply the embedded schema migrations and exit",
				Action: migrate,
			},
		},
	}

	err := app.RunContext(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, builds the logger and connects the store.
func bootstrap(c *cli.Context) (config.Config, *slog.Logger, *store.Store, error) {
	if err := config.LoadEnvFile(slog.Default(), c.String("env-file")); err != nil {
		return config.Config{}, nil, nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("config error: %w", err)
	}

	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	dbCtx, cancel := context.WithTimeout(c.Context, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 log,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, log, st, nil
}

func migrate(c *cli.Context) error {
	_, _, st, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer st.Close()

	return st.Migrate(c.Context, db.Migrations, migrationsDir)
}

func serve(c *cli.Context) error {
	cfg, log, st, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.AutoMigrate {
		if err := st.Migrate(c.Context, db.Migrations, migrationsDir); err != nil {
			return err
		}
	}

	repo := repository.New(st)
	opts := func(policy service.DeletePolicy) service.Options {
		return service.Options{DeletePolicy: policy, Logger: log}
	}
	svc := httpserver.Services{
		Movies:    service.NewMovieService(repo.Movies, repo.Directors, repo.Actors, opts(cfg.MovieDeletePolicy)),
		Actors:    service.NewActorService(repo.Actors, repo.Movies, opts(cfg.ActorDeletePolicy)),
		Directors: service.NewDirectorService(repo.Directors, opts(cfg.DirectorDeletePolicy)),
	}
	server := httpserver.New(cfg, st, svc, log)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(c.Context); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	var runErr error
	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server error: %w", err)
		}
	case <-c.Context.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("graceful shutdown error", "err", err)
	}
	log.Info("server stopped")
	return runErr
}
