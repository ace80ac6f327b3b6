package store

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
	"swipe/internal/kv"
)

// schemaVersion gates every collection. On mismatch the store wipes all of
// them and rewrites the version; there is no field-level migration.
const schemaVersion = "3"

// Logical collection keys inside the adapter.
const (
	keySchemaVersion = "schema_version"
	keyChats         = "chats"
	keyMessages      = "messages"
	keyTransactions  = "transactions"
	keyBalance       = "balance"
	keyContacts      = "contacts"
	keyBackgrounds   = "chat_backgrounds"
)

var collectionKeys = []string{
	keyChats, keyMessages, keyTransactions, keyBalance, keyContacts, keyBackgrounds,
}

// Store is the typed record store over the kv adapter. Adapter failures are
// swallowed: reads fall back to empty defaults, writes log and drop. Mutating
// calls hold a per-collection mutex for the whole read-modify-write cycle.
type Store struct {
	kv  kv.Store
	log *zap.Logger
	now func() time.Time

	chatsMu    sync.Mutex
	messagesMu sync.Mutex
	txMu       sync.Mutex
	balanceMu  sync.Mutex
	contactsMu sync.Mutex
	bgMu       sync.Mutex
}

// New creates a Store and applies the schema-version gate.
func New(kvs kv.Store, logger *zap.Logger) *Store {
	s := &Store{kv: kvs, log: logger, now: time.Now}
	s.ensureSchema()
	return s
}

func (s *Store) ensureSchema() {
	version, ok, err := s.kv.Get(keySchemaVersion)
	if err != nil {
		// Storage is down; do not wipe on a read failure.
		s.log.Warn("schema check failed", zap.Error(err))
		return
	}
	if ok && version == schemaVersion {
		return
	}
	if err := s.kv.Remove(collectionKeys...); err != nil {
		s.log.Warn("schema wipe failed", zap.Error(err))
		return
	}
	if err := s.kv.Set(keySchemaVersion, schemaVersion); err != nil {
		s.log.Warn("schema version write failed", zap.Error(err))
		return
	}
	s.log.Info("local schema reset",
		zap.String("from", version),
		zap.String("to", schemaVersion))
}

// ClearAllData wipes every collection. Used on sign-out and account deletion.
func (s *Store) ClearAllData() {
	if err := s.kv.Remove(collectionKeys...); err != nil {
		s.log.Warn("clear all data failed", zap.Error(err))
	}
}

// read unmarshals the collection under key into v, leaving v untouched on a
// missing key or any failure.
func (s *Store) read(key string, v any) {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		s.log.Warn("storage read failed", zap.String("key", key), zap.Error(err))
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.log.Warn("corrupt collection", zap.String("key", key), zap.Error(err))
	}
}

// write marshals v under key, logging and dropping on failure.
func (s *Store) write(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.kv.Set(key, string(raw)); err != nil {
		s.log.Warn("storage write failed", zap.String("key", key), zap.Error(err))
	}
}
