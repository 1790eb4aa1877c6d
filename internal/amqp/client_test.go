package amqp

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nairaghibli/internal/core"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{15, 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		err      error
		expected bool
	}{
		{nil, false},
		{errors.New("connection refused"), true},
		{errors.New("unexpected EOF"), true},
		{errors.New("broken pipe"), true},
		{errors.New("use of closed network connection"), true},
		{errors.New("invalid input"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, isConnectionError(tt.err), "%v", tt.err)
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	client := &Client{exchangeName: "ledger", queueName: "sync"}
	assert.False(t, client.isCircuitOpen(), "circuit starts closed")

	for i := 0; i < maxFailures; i++ {
		client.recordFailure()
	}
	assert.True(t, client.isCircuitOpen())

	client.lastFailure = time.Now().Add(-openTimeout - time.Second)
	assert.False(t, client.isCircuitOpen(), "circuit half-opens after the timeout")
	assert.Equal(t, StateHalfOpen, atomic.LoadInt32(&client.state))

	client.recordFailure()
	assert.True(t, client.isCircuitOpen(), "a half-open failure reopens the circuit")

	client.recordSuccess()
	assert.False(t, client.isCircuitOpen())
	assert.Equal(t, int64(0), atomic.LoadInt64(&client.failureCount))
}

func TestClient_PublishShortCircuits(t *testing.T) {
	client := &Client{exchangeName: "ledger", queueName: "sync"}

	atomic.StoreInt32(&client.state, StateOpen)
	client.lastFailure = time.Now()
	err := client.Publish(context.Background(), core.KindExpense, 1)
	assert.ErrorIs(t, err, ErrCircuitOpen)

	client.recordSuccess()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, client.Publish(ctx, core.KindExpense, 1), context.Canceled)
}

func TestLedgerSyncMessage(t *testing.T) {
	msg := NewLedgerSyncMessage(core.KindIncome, 42)
	assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Second)

	body, err := msg.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(body), `"kind":"income"`)

	parsed, err := LedgerSyncMessageFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, core.KindIncome, parsed.Kind)
	assert.Equal(t, int64(42), parsed.ID)
}

func TestLedgerSyncMessage_Invalid(t *testing.T) {
	for _, body := range []string{
		`{"kind":"expense","id":"nope"}`,
		`{"kind":"budget","id":1}`,
		`{"kind":"expense","id":0}`,
	} {
		_, err := LedgerSyncMessageFromJSON([]byte(body))
		assert.Error(t, err, body)
	}
}
