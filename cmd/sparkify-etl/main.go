package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rpattn/sparkify-etl/internal/config"
	"github.com/rpattn/sparkify-etl/internal/db"
	"github.com/rpattn/sparkify-etl/internal/ingestion"
	"github.com/rpattn/sparkify-etl/internal/logger"
	"github.com/rpattn/sparkify-etl/internal/repository"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	configPath, _ := fs.GetString("config")
	cfg, err := config.Load(configPath, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("etl failed", zap.Error(err))
		_ = log.Sync()
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	if cfg.ConfigFile != "" {
		log.Info("loaded config", zap.String("file", cfg.ConfigFile))
	}

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(context.Background()); err != nil {
			log.Warn("failed to close database connection", zap.Error(err))
		}
	}()
	log.Info("db: connected", zap.String("host", cfg.Database.Host), zap.String("dbname", cfg.Database.DBName))

	loader := ingestion.NewLoader(
		repository.NewTxScope(conn, cfg.Statements),
		ingestion.WithLogger(log),
	)

	jobs := []ingestion.Job{
		{Name: "songs", Root: cfg.Data.SongDir, Suffix: cfg.Data.Suffix, Extract: ingestion.ProcessSongFile},
		{Name: "logs", Root: cfg.Data.LogDir, Suffix: cfg.Data.Suffix, Extract: ingestion.ProcessLogFile},
	}
	for _, job := range jobs {
		if _, err := loader.Process(ctx, job); err != nil {
			return fmt.Errorf("%s: %w", job.Name, err)
		}
	}

	return nil
}
