// Package offline holds the pending-send queue and the process-wide sync
// status observers react to. The in-memory status is the source of truth
// during a session; the persisted copies only exist to survive restarts.
package offline

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"swipe/internal/kv"
)

const (
	keyPending  = "pending_messages"
	keyLastSync = "last_sync"
)

// PendingKind discriminates what a queued entry retries.
type PendingKind string

const (
	PendingText    PendingKind = "text"
	PendingPayment PendingKind = "payment"
)

// PaymentData carries what a queued payment needs to retry the transfer.
type PaymentData struct {
	Amount      float64 `json:"amount"`
	Memo        string  `json:"memo,omitempty"`
	RecipientID string  `json:"recipientId"`
}

// PendingMessage is an outgoing message whose delivery was not confirmed.
type PendingMessage struct {
	ID         string       `json:"id"`
	ChatID     string       `json:"chatId"`
	SenderID   string       `json:"senderId"`
	Content    string       `json:"content"`
	Kind       PendingKind  `json:"type"`
	CreatedAt  int64        `json:"createdAt"`
	RetryCount int          `json:"retryCount"`
	Payment    *PaymentData `json:"paymentData,omitempty"`
}

// SyncStatus is the snapshot observers receive. PendingCount always equals
// the length of the pending queue. LastSyncTime is unix millis, 0 for never.
type SyncStatus struct {
	IsOnline     bool
	LastSyncTime int64
	PendingCount int
	IsSyncing    bool
}

func initialStatus() SyncStatus {
	return SyncStatus{IsOnline: true}
}

// Queue owns the persisted pending list and the status broadcaster. It is an
// injectable instance, not a package global, so tests can run independent
// queues in parallel.
type Queue struct {
	kv  kv.Store
	log *zap.Logger
	now func() time.Time

	mu      sync.RWMutex
	status  SyncStatus
	subs    map[int]func(SyncStatus)
	nextSub int
}

// NewQueue creates a queue with the initial status. Call Initialize to
// hydrate counters from persisted state.
func NewQueue(kvs kv.Store, logger *zap.Logger) *Queue {
	return &Queue{
		kv:     kvs,
		log:    logger,
		now:    time.Now,
		status: initialStatus(),
		subs:   make(map[int]func(SyncStatus)),
	}
}

// Initialize hydrates PendingCount and LastSyncTime from the adapter at
// process start.
func (q *Queue) Initialize() {
	pending := q.load()
	lastSync := int64(0)
	if raw, ok, err := q.kv.Get(keyLastSync); err != nil {
		q.log.Warn("last sync read failed", zap.Error(err))
	} else if ok {
		lastSync, _ = strconv.ParseInt(raw, 10, 64)
	}

	q.mu.Lock()
	q.status.PendingCount = len(pending)
	q.status.LastSyncTime = lastSync
	q.mu.Unlock()
	q.notify()
}

// Pending returns the persisted queue, oldest first.
func (q *Queue) Pending() []PendingMessage {
	return q.load()
}

// Add appends a pending message, persists the queue and notifies observers.
func (q *Queue) Add(p PendingMessage) {
	q.mu.Lock()
	pending := append(q.load(), p)
	q.save(pending)
	q.status.PendingCount = len(pending)
	q.mu.Unlock()
	q.notify()
}

// Remove drops the entry with the given id, if present.
func (q *Queue) Remove(id string) {
	q.mu.Lock()
	pending := q.load()
	kept := pending[:0:0]
	for _, p := range pending {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	q.save(kept)
	q.status.PendingCount = len(kept)
	q.mu.Unlock()
	q.notify()
}

// BumpRetry increments the retry counter of the entry with the given id.
func (q *Queue) BumpRetry(id string) {
	q.mu.Lock()
	pending := q.load()
	for i := range pending {
		if pending[i].ID == id {
			pending[i].RetryCount++
		}
	}
	q.save(pending)
	q.mu.Unlock()
}

// ClearAll removes the persisted queue and checkpoint and resets the status
// to its initial value, notifying observers.
func (q *Queue) ClearAll() {
	if err := q.kv.Remove(keyPending, keyLastSync); err != nil {
		q.log.Warn("cache clear failed", zap.Error(err))
	}
	q.mu.Lock()
	q.status = initialStatus()
	q.mu.Unlock()
	q.notify()
}

func (q *Queue) load() []PendingMessage {
	raw, ok, err := q.kv.Get(keyPending)
	if err != nil {
		q.log.Warn("pending queue read failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var pending []PendingMessage
	if err := json.Unmarshal([]byte(raw), &pending); err != nil {
		q.log.Warn("corrupt pending queue", zap.Error(err))
		return nil
	}
	return pending
}

func (q *Queue) save(pending []PendingMessage) {
	raw, err := json.Marshal(pending)
	if err != nil {
		q.log.Warn("pending queue marshal failed", zap.Error(err))
		return
	}
	if err := q.kv.Set(keyPending, string(raw)); err != nil {
		q.log.Warn("pending queue write failed", zap.Error(err))
	}
}
