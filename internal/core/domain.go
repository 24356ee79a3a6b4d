package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for expense dates.
const DateLayout = "2006-01-02"

type (
	// User is one entry in the shared user registry. The ID is the
	// registry key and is not stored inside the document value.
	User struct {
		ID       string `json:"-"`
		Username string `json:"username"`
		Password string `json:"password"`
	}

	// Expense is a single ledger record. The date stays a plain
	// YYYY-MM-DD string so stored documents round-trip unchanged.
	Expense struct {
		ID       int64  `json:"id"`
		Date     string `json:"date"`
		Category string `json:"category"`
		Amount   Amount `json:"amount"`
	}

	// Budget holds the per-user monthly budget document. MonthlyBudget
	// is a pointer so a missing document is distinguishable from an
	// explicit zero budget.
	Budget struct {
		MonthlyBudget *float64 `json:"monthly_budget"`
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidAmount = errors.New("invalid amount")
)

// DefaultMonthlyBudget is the budget provisioned at registration.
const DefaultMonthlyBudget = 20000

// DefaultCategories returns the category set seeded for a new user.
func DefaultCategories() []string {
	return []string{"Food", "Travel", "Rent", "Shopping", "Bills"}
}

// NewBudget builds a budget document with an explicit monthly amount.
func NewBudget(monthly float64) Budget {
	return Budget{MonthlyBudget: &monthly}
}

// Monthly returns the budget amount, falling back to def when the
// document never carried one.
func (b Budget) Monthly(def float64) float64 {
	if b.MonthlyBudget == nil {
		return def
	}
	return *b.MonthlyBudget
}

// Validate checks an expense as accepted at the creation boundary.
// Category membership in the user's category set is deliberately not
// checked; any non-empty category is accepted.
func (e Expense) Validate() error {
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return ErrInvalidDate
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return nil
}
