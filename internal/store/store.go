// Package store persists whole-document JSON collections.
//
// Every mutation rewrites the entire document; there is no partial
// update, locking, or versioning. Concurrent writers to the same key
// race and the last writer wins.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"reflect"
)

// DocumentStore loads and saves whole JSON documents by key.
type DocumentStore interface {
	// Load decodes the document at key into v. A missing or unreadable
	// document leaves v at its zero value and returns nil; only
	// infrastructure faults are reported as errors.
	Load(ctx context.Context, key string, v any) error

	// Save durably writes v as the whole document at key, creating
	// intermediate partitions as needed. Write failures are returned to
	// the caller.
	Save(ctx context.Context, key string, v any) error
}

// UsersKey addresses the shared user registry document.
const UsersKey = "users"

// CategoriesKey addresses one user's category set.
func CategoriesKey(userID string) string { return userID + "/categories" }

// ExpensesKey addresses one user's expense ledger.
func ExpensesKey(userID string) string { return userID + "/expenses" }

// BudgetKey addresses one user's budget document.
func BudgetKey(userID string) string { return userID + "/budget" }

// decodeDocument implements the shared corrupt-content contract: content
// that does not decode resets v to its zero value and is treated as an
// empty document.
func decodeDocument(ctx context.Context, key string, data []byte, v any) {
	if err := json.Unmarshal(data, v); err != nil {
		// Unmarshal may have partially filled v before failing.
		elem := reflect.ValueOf(v).Elem()
		elem.Set(reflect.Zero(elem.Type()))
		slog.WarnContext(ctx, "Document is corrupt, treating as empty",
			"key", key, "error", err)
	}
}
