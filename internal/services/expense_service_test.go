package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/store"
)

func newTestService() (*ExpenseService, *store.MemoryStore) {
	ms := store.NewMemoryStore()
	return NewExpenseService(ms, nil, 20000, "₹"), ms
}

func TestCreateAndListExpenses(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	stored, err := svc.CreateExpense(ctx, "u1", core.Expense{Date: "2024-03-01", Category: "Food", Amount: 100})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if stored.ID != 0 {
		t.Fatalf("id=%d", stored.ID)
	}

	expenses, err := svc.ListExpenses(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Category != "Food" {
		t.Fatalf("expenses=%+v", expenses)
	}
}

func TestCreateExpenseRejectsInvalid(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []core.Expense{
		{Date: "bad", Category: "Food", Amount: 1},
		{Date: "2024-03-01", Category: "", Amount: 1},
		{Date: "2024-03-01", Category: "Food", Amount: 0},
	}
	for i, e := range cases {
		if _, err := svc.CreateExpense(ctx, "u1", e); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}

	expenses, err := svc.ListExpenses(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 0 {
		t.Fatalf("rejected expenses were stored: %+v", expenses)
	}
}

func TestDeleteExpense(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	stored, err := svc.CreateExpense(ctx, "u1", core.Expense{Date: "2024-03-01", Category: "Food", Amount: 100})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteExpense(ctx, "u1", stored.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteExpense(ctx, "u1", 99); err != nil {
		t.Fatalf("delete absent: %v", err)
	}

	expenses, err := svc.ListExpenses(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 0 {
		t.Fatalf("expenses=%+v", expenses)
	}
}

func TestMonthlySummaryUsesDefaultBudget(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateExpense(ctx, "u1", core.Expense{Date: "2024-03-01", Category: "Food", Amount: 150}); err != nil {
		t.Fatalf("create: %v", err)
	}

	ref := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	summary, err := svc.MonthlySummary(ctx, "u1", ref)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.MonthlyBudget != 20000 {
		t.Fatalf("budget=%v", summary.MonthlyBudget)
	}
	if summary.TotalSpent != 150 {
		t.Fatalf("total=%v", summary.TotalSpent)
	}
}

func TestMonthlySummaryZeroBudget(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()

	if err := ms.Save(ctx, store.BudgetKey("u1"), core.NewBudget(0)); err != nil {
		t.Fatalf("save budget: %v", err)
	}

	ref := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if _, err := svc.MonthlySummary(ctx, "u1", ref); !errors.Is(err, core.ErrZeroBudget) {
		t.Fatalf("expected ErrZeroBudget, got %v", err)
	}
}

func TestExportCSV(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateExpense(ctx, "u1", core.Expense{Date: "2024-01-05", Category: "Bills", Amount: 42.5}); err != nil {
		t.Fatalf("create: %v", err)
	}

	var sb strings.Builder
	if err := svc.ExportCSV(ctx, "u1", &sb); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(sb.String(), "01/05/2024,Bills,₹42.50") {
		t.Fatalf("csv=%q", sb.String())
	}
}

func TestCategories(t *testing.T) {
	svc, ms := newTestService()
	ctx := context.Background()

	if err := ms.Save(ctx, store.CategoriesKey("u1"), core.DefaultCategories()); err != nil {
		t.Fatalf("save: %v", err)
	}

	categories, err := svc.Categories(ctx, "u1")
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(categories) != 5 || categories[0] != "Food" {
		t.Fatalf("categories=%v", categories)
	}
}
