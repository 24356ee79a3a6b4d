// Package mirror defines the ports for replicating the ledger into an
// external spreadsheet.
package mirror

import (
	"context"

	"kharcha/internal/core"
)

type (
	// RowAppender appends one expense row for a user.
	RowAppender interface {
		AppendExpense(ctx context.Context, userID string, e core.Expense) (rowRef string, err error)
	}

	// RowDeleter removes the row for a previously mirrored expense.
	// Deleting an expense that was never mirrored is a no-op.
	RowDeleter interface {
		DeleteExpense(ctx context.Context, userID string, expenseID int64) error
	}
)
