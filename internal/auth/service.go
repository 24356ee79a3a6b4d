// Package auth implements registration, credential checks, and session
// handling.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"kharcha/internal/core"
	"kharcha/internal/store"
)

var (
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidCredentials is deliberately the same for unknown users
	// and wrong passwords so login does not leak account existence.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service validates credentials against the shared user registry and
// provisions per-user partitions on registration.
type Service struct {
	store         store.DocumentStore
	defaultBudget float64
}

func NewService(s store.DocumentStore, defaultBudget float64) *Service {
	if defaultBudget <= 0 {
		defaultBudget = core.DefaultMonthlyBudget
	}
	return &Service{store: s, defaultBudget: defaultBudget}
}

// registry is the shared users document, keyed by user id.
type registry map[string]core.User

// Register creates a user if the username is free, then provisions the
// default categories, an empty ledger, and the default budget for the
// new id. The three partition writes are not transactional; a crash
// mid-way can leave a registry entry without partitions.
func (s *Service) Register(ctx context.Context, username, password string) (core.User, error) {
	var users registry
	if err := s.store.Load(ctx, store.UsersKey, &users); err != nil {
		return core.User{}, fmt.Errorf("load user registry: %w", err)
	}
	if users == nil {
		users = registry{}
	}

	for _, u := range users {
		if u.Username == username {
			return core.User{}, ErrDuplicateUsername
		}
	}

	id, err := newUserID(users)
	if err != nil {
		return core.User{}, fmt.Errorf("generate user id: %w", err)
	}

	user := core.User{ID: id, Username: username, Password: password}
	users[id] = user
	if err := s.store.Save(ctx, store.UsersKey, users); err != nil {
		return core.User{}, fmt.Errorf("save user registry: %w", err)
	}

	if err := s.store.Save(ctx, store.CategoriesKey(id), core.DefaultCategories()); err != nil {
		return core.User{}, fmt.Errorf("provision categories: %w", err)
	}
	if err := s.store.Save(ctx, store.ExpensesKey(id), []core.Expense{}); err != nil {
		return core.User{}, fmt.Errorf("provision expenses: %w", err)
	}
	if err := s.store.Save(ctx, store.BudgetKey(id), core.NewBudget(s.defaultBudget)); err != nil {
		return core.User{}, fmt.Errorf("provision budget: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "user_id", id, "username", username)
	return user, nil
}

// Login scans the registry for an exact match on both fields. The first
// match wins.
func (s *Service) Login(ctx context.Context, username, password string) (core.User, error) {
	var users registry
	if err := s.store.Load(ctx, store.UsersKey, &users); err != nil {
		return core.User{}, fmt.Errorf("load user registry: %w", err)
	}

	for id, u := range users {
		if u.Username == username && u.Password == password {
			u.ID = id
			slog.InfoContext(ctx, "User logged in", "user_id", id, "username", username)
			return u, nil
		}
	}

	return core.User{}, ErrInvalidCredentials
}

// newUserID generates a random 8-hex-char identifier, retrying on the
// unlikely collision with an existing registry key.
func newUserID(existing registry) (string, error) {
	for range [8]struct{}{} {
		buf := make([]byte, 4)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		id := hex.EncodeToString(buf)
		if _, taken := existing[id]; !taken {
			return id, nil
		}
	}
	return "", errors.New("could not generate a unique user id")
}
