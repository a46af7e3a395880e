package amqp

import (
	"testing"
	"time"

	"carteira/internal/core"
)

func TestNewTransactionEventMessage(t *testing.T) {
	tx := core.Transaction{
		ID:     42,
		Kind:   core.KindExpense,
		Amount: core.Money{Cents: 1250},
		Date:   core.NewDate(2025, 10, 3),
	}

	msg := NewTransactionEventMessage("created", tx)

	if msg.Action != "created" {
		t.Errorf("Action = %q, want %q", msg.Action, "created")
	}
	if msg.Transaction.ID != 42 {
		t.Errorf("Transaction.ID = %d, want 42", msg.Transaction.ID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestTransactionEventMessage_JSON(t *testing.T) {
	msg := &TransactionEventMessage{
		Action: "updated",
		Transaction: core.Transaction{
			ID:       7,
			Kind:     core.KindExpense,
			Amount:   core.Money{Cents: 5025},
			Date:     core.NewDate(2025, 10, 2),
			Method:   core.MethodCard,
			Category: core.CategoryFood,
		},
		Timestamp: time.Date(2025, 10, 2, 12, 0, 0, 0, time.UTC),
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := TransactionEventMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("TransactionEventMessageFromJSON() error = %v", err)
	}

	if parsed.Action != msg.Action {
		t.Errorf("Parsed Action = %q, want %q", parsed.Action, msg.Action)
	}
	if parsed.Transaction.ID != msg.Transaction.ID {
		t.Errorf("Parsed ID = %d, want %d", parsed.Transaction.ID, msg.Transaction.ID)
	}
	if parsed.Transaction.Amount.Cents != 5025 {
		t.Errorf("Parsed amount = %d cents, want 5025", parsed.Transaction.Amount.Cents)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestTransactionEventMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"action": 5, "transaction": "nope"}`)

	if _, err := TransactionEventMessageFromJSON(invalidJSON); err == nil {
		t.Error("TransactionEventMessageFromJSON() should fail with invalid JSON")
	}
}
