package storage

import (
	"fmt"
	"strings"
)

// Open creates a backend from a location URI.
//
// Supported schemes:
//   - bolt://<path>   - bbolt file (default for devices)
//   - sqlite://<path> - SQLite file, or sqlite://:memory:
//   - memory://       - process memory, nothing is persisted
//
// A bare path without a scheme is treated as a bolt file.
func Open(uri string) (Backend, error) {
	scheme, path, found := strings.Cut(uri, "://")
	if !found {
		scheme, path = "bolt", uri
	}

	switch strings.ToLower(scheme) {
	case "bolt", "bbolt":
		if path == "" {
			return nil, fmt.Errorf("bolt storage requires a path: %q", uri)
		}
		return NewBoltBackend(path)
	case "sqlite":
		if path == "" {
			return nil, fmt.Errorf("sqlite storage requires a path: %q", uri)
		}
		return NewSQLiteBackend(path)
	case "memory", "mem":
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unsupported storage scheme: %s", scheme)
	}
}
