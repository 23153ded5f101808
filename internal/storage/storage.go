// Package storage provides the local key-value store that backs the watchlist
// and history. Values are opaque strings; callers serialize their own records.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// KV is a string key-value store with localStorage-like semantics: Get on a
// missing key reports ok=false rather than an error.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the KV implementation for backend, rooted at path.
func Open(backend, path string) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return OpenFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
