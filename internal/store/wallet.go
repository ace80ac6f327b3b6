package store

import (
	"fmt"

	"github.com/google/uuid"
)

// PaymentParams describes an in-chat payment send.
type PaymentParams struct {
	ChatID      string
	SenderID    string
	Amount      float64
	Memo        string
	Recipient   Contact
	TxHash      string
	ExplorerURL string
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// SendPayment records a payment as a chat message, a wallet transaction and a
// balance decrement, in that order. The three writes are independent; there
// is no rollback if a later one fails. Returns both created records.
func (s *Store) SendPayment(p PaymentParams) (Message, Transaction) {
	amount := formatAmount(p.Amount)

	m := s.newMessage(p.ChatID, p.SenderID, PaymentMessage)
	m.Content = amount
	m.Amount = p.Amount
	m.Memo = p.Memo
	m.TxHash = p.TxHash
	m.ExplorerURL = p.ExplorerURL
	s.AppendMessage(m, "Swiped "+amount)

	status := TxPending
	if p.TxHash != "" {
		status = TxCompleted
	}
	tx := Transaction{
		ID:              uuid.NewString(),
		Type:            TxSent,
		Amount:          p.Amount,
		ContactID:       p.Recipient.ID,
		ContactName:     p.Recipient.Name,
		ContactAvatarID: p.Recipient.AvatarID,
		Memo:            p.Memo,
		Timestamp:       m.Timestamp,
		Status:          status,
		TxHash:          p.TxHash,
	}
	s.insertTransaction(tx)
	s.adjustBalance(-p.Amount)

	return m, tx
}

// AddFunds increments the balance and records a deposit at the head of the
// transaction list.
func (s *Store) AddFunds(amount float64) Transaction {
	tx := Transaction{
		ID:        uuid.NewString(),
		Type:      TxDeposit,
		Amount:    amount,
		Memo:      "Added funds",
		Timestamp: s.now().UnixMilli(),
		Status:    TxCompleted,
	}
	s.insertTransaction(tx)
	s.adjustBalance(amount)
	return tx
}

// Transactions returns the wallet history, newest first.
func (s *Store) Transactions() []Transaction {
	var txs []Transaction
	s.read(keyTransactions, &txs)
	return txs
}

// insertTransaction prepends tx; newest-first order is maintained by
// insertion at the head, never by sorting.
func (s *Store) insertTransaction(tx Transaction) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	txs := s.Transactions()
	s.write(keyTransactions, append([]Transaction{tx}, txs...))
}

// Balance returns the local balance cache. It is authoritative for the UI
// and may drift from on-chain truth; reconciliation happens elsewhere.
func (s *Store) Balance() float64 {
	var balance float64
	s.read(keyBalance, &balance)
	return balance
}

func (s *Store) adjustBalance(delta float64) {
	s.balanceMu.Lock()
	defer s.balanceMu.Unlock()
	s.write(keyBalance, s.Balance()+delta)
}
