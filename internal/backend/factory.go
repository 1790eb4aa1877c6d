package backend

import (
	"context"
	"fmt"

	"nairaghibli/internal/amqp"
	"nairaghibli/internal/log"
	"nairaghibli/internal/services"
	"nairaghibli/internal/storage"
	"nairaghibli/internal/store/memory"
)

type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	opts := []services.LedgerOption{services.WithLogger(f.logger)}

	// The broker is optional: rows still reach the mirror through the
	// worker's periodic pass.
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without sync messages", log.FieldError, err.Error())
		} else {
			f.logger.InfoContext(ctx, "Initialized AMQP client", "exchange", config.AMQPExchange, "queue", config.AMQPQueue)
			opts = append(opts, services.WithPublisher(amqpClient))
		}
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"schema_version", repo.SchemaVersion(),
		"amqp_enabled", amqpClient != nil)

	return &BackendResult{
		Store:  repo,
		Ledger: services.NewLedger(repo, opts...),
		SQLite: repo,
		Checks: []HealthCheck{{Name: "sqlite", Check: repo.Ping}},
		Cleanup: func() error {
			var firstErr error
			if amqpClient != nil {
				if err := amqpClient.Close(); err != nil {
					firstErr = fmt.Errorf("close AMQP client: %w", err)
				}
			}
			if err := repo.Close(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("close SQLite repository: %w", err)
			}
			return firstErr
		},
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context) (*BackendResult, error) {
	s := memory.New()
	f.logger.InfoContext(ctx, "Initialized memory backend")
	return &BackendResult{
		Store:   s,
		Ledger:  services.NewLedger(s, services.WithLogger(f.logger)),
		Cleanup: func() error { return nil },
	}, nil
}
