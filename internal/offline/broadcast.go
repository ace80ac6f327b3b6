package offline

import (
	"slices"
	"strconv"

	"go.uber.org/zap"
)

// Status returns a snapshot of the current sync status.
func (q *Queue) Status() SyncStatus {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.status
}

// Subscribe registers an observer. The callback is invoked once immediately
// with the current status, then on every subsequent change. The returned
// function unsubscribes this observer without affecting others.
func (q *Queue) Subscribe(fn func(SyncStatus)) func() {
	q.mu.Lock()
	id := q.nextSub
	q.nextSub++
	q.subs[id] = fn
	snapshot := q.status
	q.mu.Unlock()

	fn(snapshot)

	return func() {
		q.mu.Lock()
		delete(q.subs, id)
		q.mu.Unlock()
	}
}

// SetOnline records a connectivity change. Unchanged values do not notify, so
// observers are not re-rendered redundantly.
func (q *Queue) SetOnline(online bool) {
	q.mu.Lock()
	if q.status.IsOnline == online {
		q.mu.Unlock()
		return
	}
	q.status.IsOnline = online
	q.mu.Unlock()
	q.notify()
}

// SetSyncing records whether a resync is in flight, with the same
// no-op-on-no-change discipline as SetOnline.
func (q *Queue) SetSyncing(syncing bool) {
	q.mu.Lock()
	if q.status.IsSyncing == syncing {
		q.mu.Unlock()
		return
	}
	q.status.IsSyncing = syncing
	q.mu.Unlock()
	q.notify()
}

// TouchLastSync stamps the current time as the last successful sync, persists
// it and notifies observers.
func (q *Queue) TouchLastSync() {
	now := q.now().UnixMilli()
	if err := q.kv.Set(keyLastSync, strconv.FormatInt(now, 10)); err != nil {
		q.log.Warn("last sync write failed", zap.Error(err))
	}
	q.mu.Lock()
	q.status.LastSyncTime = now
	q.mu.Unlock()
	q.notify()
}

// notify delivers the current snapshot to every subscriber in handle order.
func (q *Queue) notify() {
	q.mu.RLock()
	snapshot := q.status
	ids := make([]int, 0, len(q.subs))
	for id := range q.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(SyncStatus), len(ids))
	for i, id := range ids {
		fns[i] = q.subs[id]
	}
	q.mu.RUnlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}
