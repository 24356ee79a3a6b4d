package worker

import (
	"context"
	"errors"
	"testing"

	"kharcha/internal/core"
	"kharcha/internal/events"
	"kharcha/internal/mirror/memory"
)

func TestMirrorCreatedAndDeleted(t *testing.T) {
	store := memory.New()
	w := NewMirrorWorker(store, store)
	ctx := context.Background()

	created := events.NewExpenseCreated("u1", core.Expense{ID: 3, Date: "2024-03-01", Category: "Food", Amount: 10})
	if err := w.HandleMessage(ctx, created); err != nil {
		t.Fatalf("created: %v", err)
	}

	rows := store.Rows("u1")
	if len(rows) != 1 || rows[0].ID != 3 || rows[0].Category != "Food" {
		t.Fatalf("rows=%+v", rows)
	}

	deleted := events.NewExpenseDeleted("u1", 3)
	if err := w.HandleMessage(ctx, deleted); err != nil {
		t.Fatalf("deleted: %v", err)
	}
	if rows := store.Rows("u1"); len(rows) != 0 {
		t.Fatalf("rows after delete=%+v", rows)
	}
}

func TestUnknownTypeIsAcked(t *testing.T) {
	store := memory.New()
	w := NewMirrorWorker(store, store)

	msg := &events.Message{Type: "expense.renamed", UserID: "u1", ExpenseID: 1}
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("unknown type must not error: %v", err)
	}
}

type failingAppender struct{}

func (failingAppender) AppendExpense(context.Context, string, core.Expense) (string, error) {
	return "", errors.New("quota exceeded")
}

func TestAppendFailurePropagates(t *testing.T) {
	store := memory.New()
	w := NewMirrorWorker(failingAppender{}, store)

	created := events.NewExpenseCreated("u1", core.Expense{ID: 1, Date: "2024-03-01", Category: "Food", Amount: 10})
	if err := w.HandleMessage(context.Background(), created); err == nil {
		t.Fatalf("expected error")
	}
}
