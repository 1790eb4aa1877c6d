package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nairaghibli/internal/core"
)

// LedgerSyncMessage asks the mirror worker to copy one ledger row. It carries
// only the row identity; the worker reads the row from SQLite.
type LedgerSyncMessage struct {
	Kind      core.RecordKind `json:"kind"`
	ID        int64           `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewLedgerSyncMessage(kind core.RecordKind, id int64) *LedgerSyncMessage {
	return &LedgerSyncMessage{Kind: kind, ID: id, Timestamp: time.Now()}
}

func (m *LedgerSyncMessage) Validate() error {
	if !m.Kind.IsValid() {
		return fmt.Errorf("unknown record kind %q", m.Kind)
	}
	if m.ID <= 0 {
		return errors.New("record id must be positive")
	}
	return nil
}

func (m *LedgerSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerSyncMessageFromJSON decodes and validates a message body.
func LedgerSyncMessageFromJSON(data []byte) (*LedgerSyncMessage, error) {
	var msg LedgerSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
