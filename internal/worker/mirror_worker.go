// Package worker applies ledger events to the spreadsheet mirror.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"kharcha/internal/events"
	"kharcha/internal/mirror"
)

// MirrorWorker consumes ledger change events and keeps the external
// spreadsheet in step with each user's ledger.
type MirrorWorker struct {
	appender mirror.RowAppender
	deleter  mirror.RowDeleter
}

func NewMirrorWorker(appender mirror.RowAppender, deleter mirror.RowDeleter) *MirrorWorker {
	return &MirrorWorker{
		appender: appender,
		deleter:  deleter,
	}
}

// HandleMessage processes one ledger event. Unknown event types are
// logged and acknowledged so they do not wedge the queue.
func (w *MirrorWorker) HandleMessage(ctx context.Context, msg *events.Message) error {
	switch msg.Type {
	case events.TypeExpenseCreated:
		return w.handleCreated(ctx, msg)
	case events.TypeExpenseDeleted:
		return w.handleDeleted(ctx, msg)
	default:
		slog.WarnContext(ctx, "Unknown event type, skipping",
			"type", msg.Type,
			"user_id", msg.UserID,
			"expense_id", msg.ExpenseID)
		return nil
	}
}

func (w *MirrorWorker) handleCreated(ctx context.Context, msg *events.Message) error {
	ref, err := w.appender.AppendExpense(ctx, msg.UserID, msg.Expense())
	if err != nil {
		return fmt.Errorf("mirror expense %d for user %s: %w", msg.ExpenseID, msg.UserID, err)
	}

	slog.InfoContext(ctx, "Expense mirrored",
		"user_id", msg.UserID,
		"expense_id", msg.ExpenseID,
		"row_ref", ref)

	return nil
}

func (w *MirrorWorker) handleDeleted(ctx context.Context, msg *events.Message) error {
	if err := w.deleter.DeleteExpense(ctx, msg.UserID, msg.ExpenseID); err != nil {
		return fmt.Errorf("unmirror expense %d for user %s: %w", msg.ExpenseID, msg.UserID, err)
	}
	return nil
}
