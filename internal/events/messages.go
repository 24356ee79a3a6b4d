package events

import (
	"encoding/json"
	"time"

	"kharcha/internal/core"
)

// Message types routed over the mirror queue.
const (
	TypeExpenseCreated = "expense.created"
	TypeExpenseDeleted = "expense.deleted"
)

// Message is one ledger change event. Created messages carry the full
// row so the worker can mirror it without reading the store; deleted
// messages carry only the ids.
type Message struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	ExpenseID int64     `json:"expense_id"`
	Date      string    `json:"date,omitempty"`
	Category  string    `json:"category,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseCreated builds the event for a freshly stored expense.
func NewExpenseCreated(userID string, e core.Expense) *Message {
	return &Message{
		Type:      TypeExpenseCreated,
		UserID:    userID,
		ExpenseID: e.ID,
		Date:      e.Date,
		Category:  e.Category,
		Amount:    e.Amount.Float(),
		Timestamp: time.Now(),
	}
}

// NewExpenseDeleted builds the event for a removed expense.
func NewExpenseDeleted(userID string, expenseID int64) *Message {
	return &Message{
		Type:      TypeExpenseDeleted,
		UserID:    userID,
		ExpenseID: expenseID,
		Timestamp: time.Now(),
	}
}

// Expense reconstructs the ledger record carried by a created event.
func (m *Message) Expense() core.Expense {
	return core.Expense{
		ID:       m.ExpenseID,
		Date:     m.Date,
		Category: m.Category,
		Amount:   core.Amount(m.Amount),
	}
}

// ToJSON converts the message to JSON bytes
func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MessageFromJSON creates a message from JSON bytes
func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
