package sync

import (
	"sort"

	"go.uber.org/zap"
	"swipe/internal/store"
)

// Reconciler folds server-confirmed records into the local store without
// duplicating or losing locally-originated entries the server has not echoed
// back yet.
type Reconciler struct {
	store *store.Store
	log   *zap.Logger
}

// NewReconciler creates a new reconciler over the shared store.
func NewReconciler(s *store.Store, logger *zap.Logger) *Reconciler {
	return &Reconciler{store: s, log: logger}
}

// CacheMessages merges incoming messages into a chat by id. On an id
// collision the incoming entry wins: server state is authoritative over the
// local cache. The merge runs under the store's messages mutex, so a message
// sent mid-merge queues behind it and survives rather than being overwritten
// by the merge's snapshot. The merged list is re-sorted ascending by
// timestamp before persisting.
func (r *Reconciler) CacheMessages(chatID string, incoming []store.Message) {
	r.store.UpdateMessages(chatID, func(existing []store.Message) []store.Message {
		byID := make(map[string]store.Message, len(existing)+len(incoming))
		order := make([]string, 0, len(existing)+len(incoming))
		for _, m := range existing {
			if _, seen := byID[m.ID]; !seen {
				order = append(order, m.ID)
			}
			byID[m.ID] = m
		}
		for _, m := range incoming {
			if _, seen := byID[m.ID]; !seen {
				order = append(order, m.ID)
			}
			byID[m.ID] = m
		}

		merged := make([]store.Message, 0, len(order))
		for _, id := range order {
			merged = append(merged, byID[id])
		}
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].Timestamp < merged[j].Timestamp
		})
		return merged
	})
}

// CacheChat upserts a server-fetched chat, same semantics as SaveChat.
func (r *Reconciler) CacheChat(c store.Chat) {
	r.store.SaveChat(c)
}
