package amqp

import (
	"encoding/json"
	"time"

	"carteira/internal/core"
)

// TransactionEventMessage is published after every committed ledger
// mutation. It carries the full transaction so the mirror worker does
// not need to read the store back.
type TransactionEventMessage struct {
	Action      string           `json:"action"` // created, updated, deleted
	Transaction core.Transaction `json:"transaction"`
	Timestamp   time.Time        `json:"timestamp"`
}

func NewTransactionEventMessage(action string, tx core.Transaction) *TransactionEventMessage {
	return &TransactionEventMessage{
		Action:      action,
		Transaction: tx,
		Timestamp:   time.Now(),
	}
}

func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
