// Package services orchestrates the ledger, budget documents, event
// publishing, and export.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/events"
	"kharcha/internal/export"
	"kharcha/internal/ledger"
	"kharcha/internal/store"
)

// ExpenseService handles one authenticated user's expense operations.
// The events client may be nil, in which case ledger changes are not
// mirrored. Publish failures never fail the originating request.
type ExpenseService struct {
	ledger      *ledger.Ledger
	store       store.DocumentStore
	eventsCli   *events.Client
	defaultBudg float64
	symbol      string
}

func NewExpenseService(s store.DocumentStore, eventsCli *events.Client, defaultBudget float64, symbol string) *ExpenseService {
	if defaultBudget <= 0 {
		defaultBudget = core.DefaultMonthlyBudget
	}
	if symbol == "" {
		symbol = "₹"
	}
	return &ExpenseService{
		ledger:      ledger.New(s),
		store:       s,
		eventsCli:   eventsCli,
		defaultBudg: defaultBudget,
		symbol:      symbol,
	}
}

// ListExpenses returns the user's ledger in storage order.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	return s.ledger.List(ctx, userID)
}

// CreateExpense validates, stores, and announces a new expense.
func (s *ExpenseService) CreateExpense(ctx context.Context, userID string, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	stored, err := s.ledger.Add(ctx, userID, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}

	s.publish(ctx, events.NewExpenseCreated(userID, stored))
	return stored, nil
}

// DeleteExpense removes an expense by id; absent ids succeed quietly.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID string, id int64) error {
	if err := s.ledger.Remove(ctx, userID, id); err != nil {
		return fmt.Errorf("remove expense: %w", err)
	}

	s.publish(ctx, events.NewExpenseDeleted(userID, id))
	return nil
}

// Categories returns the user's category set.
func (s *ExpenseService) Categories(ctx context.Context, userID string) ([]string, error) {
	var categories []string
	if err := s.store.Load(ctx, store.CategoriesKey(userID), &categories); err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return categories, nil
}

// MonthlySummary computes the budget overview for the month of ref.
func (s *ExpenseService) MonthlySummary(ctx context.Context, userID string, ref time.Time) (core.Summary, error) {
	expenses, err := s.ledger.List(ctx, userID)
	if err != nil {
		return core.Summary{}, err
	}

	var budget core.Budget
	if err := s.store.Load(ctx, store.BudgetKey(userID), &budget); err != nil {
		return core.Summary{}, fmt.Errorf("load budget: %w", err)
	}

	return core.Summarize(expenses, budget.Monthly(s.defaultBudg), ref)
}

// ExportCSV streams the full ledger as CSV.
func (s *ExpenseService) ExportCSV(ctx context.Context, userID string, w io.Writer) error {
	expenses, err := s.ledger.List(ctx, userID)
	if err != nil {
		return err
	}
	return export.WriteCSV(w, expenses, s.symbol)
}

// CurrencySymbol returns the configured display currency prefix.
func (s *ExpenseService) CurrencySymbol() string {
	return s.symbol
}

func (s *ExpenseService) publish(ctx context.Context, msg *events.Message) {
	if s.eventsCli == nil {
		return
	}
	if err := s.eventsCli.Publish(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"error", err,
			"type", msg.Type,
			"user_id", msg.UserID,
			"expense_id", msg.ExpenseID)
	}
}

// Close releases the events client, if any.
func (s *ExpenseService) Close() error {
	if s.eventsCli != nil {
		if err := s.eventsCli.Close(); err != nil {
			return fmt.Errorf("close events client: %w", err)
		}
	}
	return nil
}
