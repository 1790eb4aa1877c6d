package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nairaghibli/internal/config"
	"nairaghibli/internal/core"
	"nairaghibli/internal/services"
)

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	require.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "sheets"})
	require.Error(t, err)

	cfg, err := FromAppConfig(&config.Config{DataBackend: "memory", AMQPURL: "amqp://localhost"})
	require.NoError(t, err)
	assert.Equal(t, MemoryBackend, cfg.Type)
	assert.Empty(t, cfg.AMQPURL, "AMQP is only wired for sqlite")

	cfg, err = FromAppConfig(&config.Config{
		DataBackend: "sqlite", SQLiteDBPath: "x.db",
		AMQPURL: "amqp://localhost", AMQPExchange: "ex", AMQPQueue: "q",
	})
	require.NoError(t, err)
	assert.Equal(t, "amqp://localhost", cfg.AMQPURL)
	assert.Equal(t, "q", cfg.AMQPQueue)
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{Type: "nope"}.Validate())
	assert.Error(t, Config{Type: SQLiteBackend}.Validate())
	assert.Error(t, Config{Type: SQLiteBackend, SQLiteDBPath: "x.db", AMQPURL: "amqp://h"}.Validate())
	assert.Error(t, Config{Type: MemoryBackend, AMQPURL: "amqp://h"}.Validate())
	assert.NoError(t, Config{Type: MemoryBackend}.Validate())
	assert.Equal(t, []string{"memory", "sqlite"}, GetBackendTypeStrings())
}

func TestCreateBackends(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	mem, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
	require.NoError(t, err)
	assert.Nil(t, mem.SQLite)
	assert.NoError(t, mem.Cleanup())

	dbPath := filepath.Join(t.TempDir(), "nested", "ledger.db")
	lite, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: dbPath})
	require.NoError(t, err)
	require.NotNil(t, lite.SQLite)
	require.Len(t, lite.Checks, 1)
	assert.NoError(t, lite.Checks[0].Check(ctx))

	out := lite.Ledger.AddIncome(ctx, "2024-05", core.Money{Kobo: 100})
	assert.Equal(t, services.Outcome{Success: true, Message: "Income saved for 2024-05!"}, out)
	rows, err := lite.Store.ListIncome(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	assert.NoError(t, lite.Cleanup())
}
