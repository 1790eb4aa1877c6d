package backend

import (
	"context"

	"nairaghibli/internal/services"
	"nairaghibli/internal/storage"
	"nairaghibli/internal/store"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// HealthCheck probes one dependency of the backend.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// BackendResult is a ready ledger plus what the caller needs to run and
// stop it.
type BackendResult struct {
	Store  store.Ledger
	Ledger *services.Ledger
	// SQLite is nil for the memory backend.
	SQLite  *storage.SQLiteRepository
	Checks  []HealthCheck
	Cleanup CleanupFunc
}

// Factory creates ledger backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	SQLiteDBPath string

	// AMQP is optional; without a URL appended rows are not queued.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
