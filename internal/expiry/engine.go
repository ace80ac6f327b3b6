// Package expiry implements the disappearing-message engine: per-chat timer
// changes and the sweep that purges expired messages. The engine is passive;
// scheduling lives with the caller (chat-open in the UI, a ticker in the
// daemon).
package expiry

import (
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
	"swipe/internal/store"
)

// Engine sweeps expired messages out of the store it shares with the domain
// record store.
type Engine struct {
	store *store.Store
	log   *zap.Logger
	now   func() time.Time
}

// New creates an expiry engine over the shared store.
func New(s *store.Store, logger *zap.Logger) *Engine {
	return &Engine{store: s, log: logger, now: time.Now}
}

// Timer returns the chat's current disappearing-timer setting, off when the
// chat is unknown.
func (e *Engine) Timer(chatID string) store.DisappearingTimer {
	chat, ok := e.store.Chat(chatID)
	if !ok || chat.DisappearingTimer == "" {
		return store.TimerOff
	}
	return chat.DisappearingTimer
}

// SetTimer updates the chat's timer and, when the value actually changed,
// appends a system message describing the change. The system message itself
// never expires: timer notices are informational, not timed.
func (e *Engine) SetTimer(chatID string, timer store.DisappearingTimer) {
	chat, ok := e.store.Chat(chatID)
	if !ok {
		return
	}
	current := chat.DisappearingTimer
	if current == "" {
		current = store.TimerOff
	}
	if current == timer {
		return
	}
	chat.DisappearingTimer = timer
	e.store.SaveChat(chat)

	text := "You turned off disappearing messages."
	if timer != store.TimerOff {
		text = "You turned on disappearing messages. New messages will disappear after " + timer.Label() + "."
	}
	now := e.now().UnixMilli()
	e.store.AppendMessage(store.Message{
		ID:        "m" + strconv.FormatInt(now, 10),
		ChatID:    chatID,
		SenderID:  "system",
		Content:   text,
		Timestamp: now,
		Type:      store.SystemMessage,
	}, text)
}

// Cleanup removes every message whose expiry has passed and repairs the
// denormalized preview of each chat that lost messages. The whole
// filter-and-rewrite runs under the store's messages mutex, so a message sent
// during the sweep queues behind it instead of being overwritten. Idempotent:
// a second run with no new expirations removes nothing and writes nothing.
// Returns the number of messages removed.
func (e *Engine) Cleanup() int {
	now := e.now().UnixMilli()

	removed := 0
	repaired := make(map[string][]store.Message)
	e.store.UpdateAllMessages(func(byChat map[string][]store.Message) bool {
		for chatID, msgs := range byChat {
			kept := msgs[:0:0]
			for _, m := range msgs {
				if m.ExpiresAt != 0 && m.ExpiresAt <= now {
					removed++
					continue
				}
				kept = append(kept, m)
			}
			if len(kept) == len(msgs) {
				continue
			}
			byChat[chatID] = kept
			repaired[chatID] = kept
		}
		return removed > 0
	})

	// Preview repair only touches the chats collection, so it runs after the
	// messages lock is released.
	for chatID, kept := range repaired {
		e.repairPreview(chatID, kept)
	}
	if removed > 0 {
		e.log.Info("expired messages swept", zap.Int("removed", removed))
	}
	return removed
}

// repairPreview recomputes LastMessage/LastMessageTime from the newest
// remaining message by timestamp. An emptied chat resets to ("", 0), which
// sorts it to the bottom of any list ordered by last activity. A chat record
// that vanished concurrently is treated as already empty and skipped.
func (e *Engine) repairPreview(chatID string, remaining []store.Message) {
	chat, ok := e.store.Chat(chatID)
	if !ok {
		return
	}
	if len(remaining) == 0 {
		chat.LastMessage = ""
		chat.LastMessageTime = 0
		e.store.SaveChat(chat)
		return
	}
	// Full re-sort rather than trusting stored order.
	newest := make([]store.Message, len(remaining))
	copy(newest, remaining)
	sort.Slice(newest, func(i, j int) bool { return newest[i].Timestamp > newest[j].Timestamp })
	chat.LastMessage = newest[0].Content
	chat.LastMessageTime = newest[0].Timestamp
	e.store.SaveChat(chat)
}
