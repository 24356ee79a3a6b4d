package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"time"
)

var (
	// ErrZeroBudget is returned when the monthly budget is zero, which
	// would make the percent-of-budget computation meaningless.
	ErrZeroBudget = errors.New("monthly budget is zero")

	// ErrBadAmount is returned when an expense in the summary month has
	// an amount that cannot be read as a number.
	ErrBadAmount = errors.New("expense has a non-numeric amount")
)

// CategoryAmount is an amount aggregated by category name. It marshals
// as a [name, amount] pair, the wire shape of top_categories.
type CategoryAmount struct {
	Category string
	Amount   float64
}

func (ca CategoryAmount) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{ca.Category, ca.Amount})
}

// Breakdown is the per-category totals for a month, ordered by first
// occurrence of each category. It marshals as a JSON object whose keys
// keep that order.
type Breakdown []CategoryAmount

func (b Breakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ca := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ca.Category)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(ca.Amount)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Summary is the monthly budget overview for one user.
type Summary struct {
	Month             string           `json:"month"`
	TotalSpent        float64          `json:"total_spent"`
	MonthlyBudget     float64          `json:"monthly_budget"`
	BudgetRemaining   float64          `json:"budget_remaining"`
	BudgetPercent     float64          `json:"budget_percent"`
	ExpenseCount      int              `json:"expense_count"`
	CategoryBreakdown Breakdown        `json:"category_breakdown"`
	TopCategories     []CategoryAmount `json:"top_categories"`
	BudgetWarning     bool             `json:"budget_warning"`
	BudgetExceeded    bool             `json:"budget_exceeded"`
}

const (
	// warningPercent is the percent-of-budget above which the warning
	// flag is raised.
	warningPercent = 80

	// topCategoriesLimit caps the ranked category list.
	topCategoriesLimit = 3
)

// Summarize computes the budget overview for the calendar month of ref.
// Expenses are matched by the YYYY-MM prefix of their date string, the
// same way the ledger stores them. A zero monthly budget and unreadable
// amounts are reported as errors rather than producing a bogus summary.
func Summarize(expenses []Expense, monthlyBudget float64, ref time.Time) (Summary, error) {
	month := ref.Format("2006-01")

	if monthlyBudget == 0 {
		return Summary{}, ErrZeroBudget
	}

	var (
		totalSpent float64
		count      int
		breakdown  Breakdown
		index      = map[string]int{}
	)

	for _, e := range expenses {
		if len(e.Date) < len(month) || e.Date[:len(month)] != month {
			continue
		}
		amount := e.Amount.Float()
		if math.IsNaN(amount) {
			return Summary{}, ErrBadAmount
		}

		count++
		totalSpent += amount

		if i, ok := index[e.Category]; ok {
			breakdown[i].Amount += amount
		} else {
			index[e.Category] = len(breakdown)
			breakdown = append(breakdown, CategoryAmount{Category: e.Category, Amount: amount})
		}
	}

	top := make([]CategoryAmount, len(breakdown))
	copy(top, breakdown)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Amount > top[j].Amount
	})
	if len(top) > topCategoriesLimit {
		top = top[:topCategoriesLimit]
	}

	percent := totalSpent / monthlyBudget * 100

	return Summary{
		Month:             month,
		TotalSpent:        round2(totalSpent),
		MonthlyBudget:     monthlyBudget,
		BudgetRemaining:   round2(monthlyBudget - totalSpent),
		BudgetPercent:     round2(percent),
		ExpenseCount:      count,
		CategoryBreakdown: breakdown,
		TopCategories:     top,
		BudgetWarning:     percent > warningPercent,
		BudgetExceeded:    totalSpent > monthlyBudget,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
