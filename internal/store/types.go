package store

import "time"

// Contact is a cached contact record.
type Contact struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Username      string `json:"username,omitempty"`
	AvatarID      string `json:"avatarId,omitempty"`
	WalletAddress string `json:"walletAddress,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

// DisappearingTimer is the per-chat auto-expiry setting.
type DisappearingTimer string

const (
	TimerOff DisappearingTimer = "off"
	Timer24h DisappearingTimer = "24h"
	Timer7d  DisappearingTimer = "7d"
	Timer30d DisappearingTimer = "30d"
)

// Duration returns the timer's message lifetime, 0 for off or unknown values.
func (t DisappearingTimer) Duration() time.Duration {
	switch t {
	case Timer24h:
		return 24 * time.Hour
	case Timer7d:
		return 7 * 24 * time.Hour
	case Timer30d:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// Label returns the human-readable timer duration used in system messages.
func (t DisappearingTimer) Label() string {
	switch t {
	case Timer24h:
		return "24 hours"
	case Timer7d:
		return "7 days"
	case Timer30d:
		return "30 days"
	default:
		return ""
	}
}

// Chat is a conversation. LastMessage and LastMessageTime are a denormalized
// preview of the newest non-expired message and are repaired after every
// append and every expiry sweep.
type Chat struct {
	ID                string            `json:"id"`
	Participants      []Contact         `json:"participants"`
	LastMessage       string            `json:"lastMessage"`
	LastMessageTime   int64             `json:"lastMessageTime"`
	UnreadCount       int               `json:"unreadCount"`
	IsGroup           bool              `json:"isGroup"`
	Name              string            `json:"name,omitempty"`
	DisappearingTimer DisappearingTimer `json:"disappearingMessagesTimer,omitempty"`
}

// MessageType discriminates the message payload.
type MessageType string

const (
	TextMessage     MessageType = "text"
	PaymentMessage  MessageType = "payment"
	ImageMessage    MessageType = "image"
	LocationMessage MessageType = "location"
	ContactMessage  MessageType = "contact"
	DocumentMessage MessageType = "document"
	AudioMessage    MessageType = "audio"
	SystemMessage   MessageType = "system"
)

// Message is a single chat message. Payload fields are flat and only set for
// the matching type. ExpiresAt is stamped once at creation from the chat's
// timer in effect at that instant; 0 means the message never expires.
type Message struct {
	ID        string      `json:"id"`
	ChatID    string      `json:"chatId"`
	SenderID  string      `json:"senderId"`
	Content   string      `json:"content"`
	Timestamp int64       `json:"timestamp"`
	Type      MessageType `json:"type"`
	ExpiresAt int64       `json:"expiresAt,omitempty"`

	// Payment payload.
	Amount      float64 `json:"amount,omitempty"`
	Memo        string  `json:"memo,omitempty"`
	TxHash      string  `json:"txHash,omitempty"`
	ExplorerURL string  `json:"explorerUrl,omitempty"`

	// Attachment payload.
	MediaURI    string  `json:"mediaUri,omitempty"`
	FileName    string  `json:"fileName,omitempty"`
	FileSize    int64   `json:"fileSize,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	ContactID   string  `json:"contactId,omitempty"`
	ContactName string  `json:"contactName,omitempty"`
	DurationSec int     `json:"durationSec,omitempty"`
}

// TransactionType discriminates wallet history entries.
type TransactionType string

const (
	TxSent     TransactionType = "sent"
	TxReceived TransactionType = "received"
	TxDeposit  TransactionType = "deposit"
)

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
)

// Transaction is a wallet history entry. Insert-only, newest first.
type Transaction struct {
	ID              string            `json:"id"`
	Type            TransactionType   `json:"type"`
	Amount          float64           `json:"amount"`
	ContactID       string            `json:"contactId,omitempty"`
	ContactName     string            `json:"contactName,omitempty"`
	ContactAvatarID string            `json:"contactAvatarId,omitempty"`
	Memo            string            `json:"memo,omitempty"`
	Timestamp       int64             `json:"timestamp"`
	Status          TransactionStatus `json:"status"`
	TxHash          string            `json:"txHash,omitempty"`
}
