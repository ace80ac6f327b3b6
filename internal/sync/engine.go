package sync

import (
	"context"
	"time"

	"go.uber.org/zap"
	"swipe/internal/offline"
	"swipe/internal/outbox"
	"swipe/internal/store"
)

// Fetcher is the slice of the backend the engine needs: a liveness probe and
// a bulk fetch of messages confirmed since the last sync.
type Fetcher interface {
	Ping(ctx context.Context) error
	MessagesSince(ctx context.Context, since int64) ([]store.Message, error)
}

// Engine watches connectivity and reconciles the local cache when the device
// comes back online: merge server messages, drain the pending queue, stamp
// the sync checkpoint.
type Engine struct {
	queue      *offline.Queue
	reconciler *Reconciler
	sender     *outbox.Sender
	backend    Fetcher
	log        *zap.Logger
	interval   time.Duration
	cancel     context.CancelFunc
}

// NewEngine creates a sync engine probing the backend every interval.
func NewEngine(q *offline.Queue, r *Reconciler, s *outbox.Sender, backend Fetcher, interval time.Duration, logger *zap.Logger) *Engine {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Engine{
		queue:      q,
		reconciler: r,
		sender:     s,
		backend:    backend,
		log:        logger,
		interval:   interval,
	}
}

// Start begins the connectivity probe loop.
func (e *Engine) Start(ctx context.Context) {
	ctx, e.cancel = context.WithCancel(ctx)
	go e.loop(ctx)
}

// Stop stops the probe loop.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
}

func (e *Engine) loop(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (e *Engine) probe(ctx context.Context) {
	online := e.backend.Ping(ctx) == nil
	wasOnline := e.queue.Status().IsOnline
	e.queue.SetOnline(online)
	if online && !wasOnline {
		e.log.Info("connectivity restored, resyncing")
		e.Resync(ctx)
	}
}

// Resync merges everything the server confirmed since the last checkpoint
// into the local cache, then drains the pending queue. Safe to call when
// already in sync.
func (e *Engine) Resync(ctx context.Context) {
	e.queue.SetSyncing(true)
	defer e.queue.SetSyncing(false)

	since := e.queue.Status().LastSyncTime
	msgs, err := e.backend.MessagesSince(ctx, since)
	if err != nil {
		e.log.Warn("sync fetch failed", zap.Error(err))
		return
	}

	byChat := make(map[string][]store.Message)
	for _, m := range msgs {
		byChat[m.ChatID] = append(byChat[m.ChatID], m)
	}
	for chatID, batch := range byChat {
		e.reconciler.CacheMessages(chatID, batch)
	}
	if len(msgs) > 0 {
		e.log.Info("server messages merged",
			zap.Int("messages", len(msgs)),
			zap.Int("chats", len(byChat)))
	}

	e.sender.Drain(ctx)
	e.queue.TouchLastSync()
}
