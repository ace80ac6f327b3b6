package store

import (
	"testing"
	"time"
)

// TestSendPaymentScenario: $12.50 to alice with starting balance 100 leaves
// 87.5, a payment message with content "$12.50", a sent transaction with
// amount 12.5 and the chat preview "Swiped $12.50".
func TestSendPaymentScenario(t *testing.T) {
	s := testStore(t)
	s.AddFunds(100)
	s.SaveChat(Chat{ID: "c1"})

	msg, tx := s.SendPayment(PaymentParams{
		ChatID:    "c1",
		SenderID:  "me",
		Amount:    12.5,
		Memo:      "lunch",
		Recipient: Contact{ID: "alice", Name: "Alice", AvatarID: "coral"},
		TxHash:    "0xabc",
	})

	if got := s.Balance(); got != 87.5 {
		t.Errorf("balance = %v, want 87.5", got)
	}
	if msg.Type != PaymentMessage || msg.Content != "$12.50" {
		t.Errorf("message = (%s, %q), want (payment, $12.50)", msg.Type, msg.Content)
	}
	if tx.Type != TxSent || tx.Amount != 12.5 {
		t.Errorf("tx = (%s, %v), want (sent, 12.5)", tx.Type, tx.Amount)
	}
	if tx.Status != TxCompleted {
		t.Errorf("tx status = %s, want completed (has hash)", tx.Status)
	}
	if tx.ContactAvatarID != "coral" {
		t.Errorf("avatar = %q, want coral", tx.ContactAvatarID)
	}
	chat, _ := s.Chat("c1")
	if chat.LastMessage != "Swiped $12.50" {
		t.Errorf("preview = %q, want Swiped $12.50", chat.LastMessage)
	}
}

func TestSendPaymentWithoutHashIsPending(t *testing.T) {
	s := testStore(t)
	s.SaveChat(Chat{ID: "c1"})

	_, tx := s.SendPayment(PaymentParams{ChatID: "c1", SenderID: "me", Amount: 5})
	if tx.Status != TxPending {
		t.Errorf("tx status = %s, want pending (no hash)", tx.Status)
	}
}

func TestAddFunds(t *testing.T) {
	s := testStore(t)

	tx := s.AddFunds(25)
	if tx.Type != TxDeposit || tx.Amount != 25 {
		t.Errorf("tx = (%s, %v), want (deposit, 25)", tx.Type, tx.Amount)
	}
	if got := s.Balance(); got != 25 {
		t.Errorf("balance = %v, want 25", got)
	}
}

func TestTransactionsNewestFirst(t *testing.T) {
	s := testStore(t)
	ts := int64(1_700_000_000_000)
	s.now = func() time.Time { ts += 1000; return time.UnixMilli(ts) }

	s.AddFunds(1)
	s.AddFunds(2)
	s.AddFunds(3)

	txs := s.Transactions()
	if len(txs) != 3 {
		t.Fatalf("got %d transactions, want 3", len(txs))
	}
	if txs[0].Amount != 3 || txs[2].Amount != 1 {
		t.Errorf("order wrong: %v, %v, %v", txs[0].Amount, txs[1].Amount, txs[2].Amount)
	}
}

func TestPaymentRespectsDisappearingTimer(t *testing.T) {
	s := testStore(t)
	base := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return base }
	s.SaveChat(Chat{ID: "c1", DisappearingTimer: Timer7d})

	msg, _ := s.SendPayment(PaymentParams{ChatID: "c1", SenderID: "me", Amount: 1})
	want := base.UnixMilli() + 604_800_000
	if msg.ExpiresAt != want {
		t.Errorf("expiresAt = %d, want %d", msg.ExpiresAt, want)
	}
}
