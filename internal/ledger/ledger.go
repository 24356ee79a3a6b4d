// Package ledger implements per-user expense lists over the document
// store.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"kharcha/internal/core"
	"kharcha/internal/store"
)

// Ledger is CRUD over one user's expense document. IDs come from a
// monotonically increasing counter persisted alongside the list, so an
// id is never reused after a deletion.
type Ledger struct {
	store store.DocumentStore
}

func New(s store.DocumentStore) *Ledger {
	return &Ledger{store: s}
}

// document is the stored shape of one user's expense list.
type document struct {
	NextID   int64          `json:"next_id"`
	Expenses []core.Expense `json:"expenses"`
}

// UnmarshalJSON also accepts the legacy bare-array form and recovers
// the counter as max id + 1.
func (d *document) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []core.Expense
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		d.Expenses = items
		d.NextID = nextAfter(items)
		return nil
	}

	type plain document
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = document(p)
	if d.NextID <= 0 {
		d.NextID = nextAfter(d.Expenses)
	}
	return nil
}

func nextAfter(items []core.Expense) int64 {
	var next int64
	for _, e := range items {
		if e.ID >= next {
			next = e.ID + 1
		}
	}
	return next
}

// List returns the stored expenses verbatim, in storage order.
func (l *Ledger) List(ctx context.Context, userID string) ([]core.Expense, error) {
	var doc document
	if err := l.store.Load(ctx, store.ExpensesKey(userID), &doc); err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	return doc.Expenses, nil
}

// Add assigns the next id, appends the expense, and persists the whole
// document. The stored record is returned with its assigned id.
func (l *Ledger) Add(ctx context.Context, userID string, e core.Expense) (core.Expense, error) {
	key := store.ExpensesKey(userID)

	var doc document
	if err := l.store.Load(ctx, key, &doc); err != nil {
		return core.Expense{}, fmt.Errorf("load expenses: %w", err)
	}

	e.ID = doc.NextID
	doc.NextID++
	doc.Expenses = append(doc.Expenses, e)

	if err := l.store.Save(ctx, key, doc); err != nil {
		return core.Expense{}, fmt.Errorf("save expenses: %w", err)
	}

	slog.InfoContext(ctx, "Expense added",
		"user_id", userID,
		"expense_id", e.ID,
		"category", e.Category,
		"amount", e.Amount.Float())

	return e, nil
}

// Remove filters out every expense with the given id and persists the
// result. Removing an absent id is a no-op success.
func (l *Ledger) Remove(ctx context.Context, userID string, id int64) error {
	key := store.ExpensesKey(userID)

	var doc document
	if err := l.store.Load(ctx, key, &doc); err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}

	kept := doc.Expenses[:0]
	removed := 0
	for _, e := range doc.Expenses {
		if e.ID == id {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	doc.Expenses = kept

	if err := l.store.Save(ctx, key, doc); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}

	slog.InfoContext(ctx, "Expense removed",
		"user_id", userID,
		"expense_id", id,
		"removed", removed)

	return nil
}
