package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"nairaghibli/internal/amqp"
	"nairaghibli/internal/cli"
	"nairaghibli/internal/config"
	"nairaghibli/internal/log"
	gsheet "nairaghibli/internal/sheets/google"
	"nairaghibli/internal/storage"
	"nairaghibli/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig((*config.Config).ValidateWorker)
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	if err := run(cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker exited with error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := cli.SignalContext(logger)
	defer stop()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	mirror, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		ExpenseSheet:    cfg.GoogleSheetName,
		IncomeSheet:     cfg.GoogleIncomeSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return err
	}
	logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer client.Close()

	w := worker.NewSyncWorker(repo, mirror, cfg.SyncBatchSize)

	logger.Info("Performing startup sync check", "batch_size", cfg.SyncBatchSize)
	if err := w.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", log.FieldError, err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.Consume(gctx, w.HandleSyncMessage)
	})
	g.Go(func() error {
		return w.Run(gctx, cfg.SyncInterval)
	})
	return g.Wait()
}
