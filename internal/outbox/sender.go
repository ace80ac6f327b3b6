// Package outbox implements the sender path: write locally first, deliver to
// the backend when possible, queue as pending otherwise, and drain the queue
// once connectivity is back.
package outbox

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"swipe/internal/offline"
	"swipe/internal/store"
)

// drainRetries caps per-entry delivery attempts inside a single drain pass.
const drainRetries = 2

// Deliverer is the backend surface the sender needs.
type Deliverer interface {
	SendText(ctx context.Context, chatID, content string) (serverID string, err error)
	SendPayment(ctx context.Context, chatID string, amount float64, memo, recipientID string) (txHash string, err error)
}

// Sender writes messages to the local store and delivers them, falling back
// to the pending queue when delivery cannot be confirmed.
type Sender struct {
	store   *store.Store
	queue   *offline.Queue
	backend Deliverer
	log     *zap.Logger
}

// NewSender creates a sender over the shared store and pending queue.
func NewSender(s *store.Store, q *offline.Queue, backend Deliverer, logger *zap.Logger) *Sender {
	return &Sender{store: s, queue: q, backend: backend, log: logger}
}

// SendText stores the message locally, then attempts delivery. The local
// write always happens first so the message shows in the chat immediately;
// a failed or offline delivery queues it as pending instead of erroring.
func (s *Sender) SendText(ctx context.Context, chatID, content, senderID string) store.Message {
	m := s.store.SendMessage(chatID, content, senderID)

	if !s.queue.Status().IsOnline {
		s.enqueueText(m)
		return m
	}
	if _, err := s.backend.SendText(ctx, chatID, content); err != nil {
		s.log.Warn("send failed, queueing",
			zap.String("msg_id", m.ID),
			zap.Error(err))
		s.enqueueText(m)
	}
	return m
}

// SendPayment transfers first when online so the tx hash lands on the local
// records; offline or failed transfers are recorded as pending transactions
// and queued for the drain.
func (s *Sender) SendPayment(ctx context.Context, p store.PaymentParams) (store.Message, store.Transaction) {
	if s.queue.Status().IsOnline && p.TxHash == "" {
		hash, err := s.backend.SendPayment(ctx, p.ChatID, p.Amount, p.Memo, p.Recipient.ID)
		if err != nil {
			s.log.Warn("payment transfer failed, queueing",
				zap.String("chat_id", p.ChatID),
				zap.Error(err))
		} else {
			p.TxHash = hash
		}
	}

	m, tx := s.store.SendPayment(p)
	if p.TxHash == "" {
		s.queue.Add(offline.PendingMessage{
			ID:        m.ID,
			ChatID:    m.ChatID,
			SenderID:  m.SenderID,
			Content:   m.Content,
			Kind:      offline.PendingPayment,
			CreatedAt: m.Timestamp,
			Payment: &offline.PaymentData{
				Amount:      p.Amount,
				Memo:        p.Memo,
				RecipientID: p.Recipient.ID,
			},
		})
	}
	return m, tx
}

func (s *Sender) enqueueText(m store.Message) {
	s.queue.Add(offline.PendingMessage{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Kind:      offline.PendingText,
		CreatedAt: m.Timestamp,
	})
}

// Drain attempts delivery of every pending entry with exponential backoff.
// Delivered entries leave the queue; failures bump the retry counter and
// stay queued for the next pass.
func (s *Sender) Drain(ctx context.Context) {
	for _, p := range s.queue.Pending() {
		p := p
		op := func() error {
			var err error
			switch p.Kind {
			case offline.PendingPayment:
				if p.Payment != nil {
					_, err = s.backend.SendPayment(ctx, p.ChatID, p.Payment.Amount, p.Payment.Memo, p.Payment.RecipientID)
				}
			default:
				_, err = s.backend.SendText(ctx, p.ChatID, p.Content)
			}
			return err
		}

		policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), drainRetries), ctx)
		if err := backoff.Retry(op, policy); err != nil {
			s.log.Warn("drain delivery failed",
				zap.String("pending_id", p.ID),
				zap.Int("retry_count", p.RetryCount+1),
				zap.Error(err))
			s.queue.BumpRetry(p.ID)
			continue
		}
		s.queue.Remove(p.ID)
		s.log.Info("pending message delivered", zap.String("pending_id", p.ID))
	}
}
