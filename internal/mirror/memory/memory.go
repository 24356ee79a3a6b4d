// Package memory is the in-process mirror used by tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"kharcha/internal/core"
)

type row struct {
	UserID  string
	Expense core.Expense
}

// Store collects mirrored rows in memory.
type Store struct {
	mu   sync.Mutex
	rows []row
}

func New() *Store {
	return &Store{}
}

// AppendExpense implements mirror.RowAppender.
func (s *Store) AppendExpense(_ context.Context, userID string, e core.Expense) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row{UserID: userID, Expense: e})
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// DeleteExpense implements mirror.RowDeleter.
func (s *Store) DeleteExpense(_ context.Context, userID string, expenseID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, r := range s.rows {
		if r.UserID == userID && r.Expense.ID == expenseID {
			continue
		}
		kept = append(kept, r)
	}
	s.rows = kept
	return nil
}

// Rows returns a copy of the mirrored rows for a user, in append order.
func (s *Store) Rows(userID string) []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, r := range s.rows {
		if r.UserID == userID {
			out = append(out, r.Expense)
		}
	}
	return out
}
