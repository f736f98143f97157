// Package storage defines the device-local key/value substrate that holds
// wallet data, along with bbolt, SQLite and in-memory implementations.
//
// Keys and values are opaque strings. Operations are synchronous and local;
// concurrent writers (e.g. two processes sharing one file) are not
// coordinated beyond what the engine provides: last write wins.
package storage

import "errors"

// ErrClosed is returned by operations on a closed backend.
var ErrClosed = errors.New("storage is closed")

// Backend is a namespaced string key/value store.
type Backend interface {
	// Get returns the value stored under key and whether it exists.
	Get(key string) (string, bool, error)

	// Set assigns value to key, replacing any existing value.
	Set(key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error

	// Keys returns every key starting with prefix, in lexical order.
	Keys(prefix string) ([]string, error)

	// Name identifies the backend in logs.
	Name() string

	// Close releases the underlying resources.
	Close() error
}
