// Package store is the durable record store: keyed collections of JSON records with
// atomic read/write transactions spanning any number of collections.
package store

import (
	"context"
	"errors"
)

// Collection names used by the application.
const (
	Products      = "Products"
	Inventory     = "Inventory"
	Recipes       = "Recipes"
	Sales         = "Sales"
	Notifications = "Notifications"
	Predictions   = "Predictions"
	Settings      = "Settings"
)

// ErrReadOnly is returned when a write is attempted inside View.
var ErrReadOnly = errors.New("write attempted in read-only transaction")

// Tx is a transactional view over the collections. Writes made through it become
// visible to other readers all at once when the enclosing Update commits, or never.
type Tx interface {
	// Get decodes the record stored under key into dst. It reports false when absent.
	Get(collection, key string, dst any) (bool, error)
	// Put upserts value under key.
	Put(collection, key string, value any) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(collection, key string) error
	// ForEach visits the raw records of a collection in key order.
	ForEach(collection string, fn func(key string, raw []byte) error) error
	// NextID allocates the next numeric key of a collection.
	NextID(collection string) (int64, error)
}

// Store runs transactions. Update transactions are serialized; View transactions read a
// consistent snapshot and never block writers.
type Store interface {
	View(ctx context.Context, fn func(tx Tx) error) error
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}
