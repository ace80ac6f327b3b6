package kv

import "errors"

// ErrUnavailable marks an adapter I/O failure. Callers are expected to treat
// it as non-fatal: log and fall back to defaults.
var ErrUnavailable = errors.New("kv: storage unavailable")

// Store is the string-keyed persistence adapter every collection sits on.
// Get reports false when the key is absent; that is not an error.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(keys ...string) error
	Close() error
}
