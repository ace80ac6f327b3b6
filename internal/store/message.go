package store

import (
	"fmt"
	"strconv"
	"time"
)

// Messages returns a chat's messages in ascending timestamp order, or an
// empty slice when the chat has none.
func (s *Store) Messages(chatID string) []Message {
	return s.AllMessages()[chatID]
}

// MessagesDesc returns a chat's messages newest first, for conversation views.
func (s *Store) MessagesDesc(chatID string) []Message {
	asc := s.Messages(chatID)
	desc := make([]Message, len(asc))
	for i, m := range asc {
		desc[len(asc)-1-i] = m
	}
	return desc
}

// AllMessages returns the full chatID -> messages map.
func (s *Store) AllMessages() map[string][]Message {
	byChat := make(map[string][]Message)
	s.read(keyMessages, &byChat)
	return byChat
}

// ReplaceMessages overwrites a single chat's message list.
func (s *Store) ReplaceMessages(chatID string, msgs []Message) {
	s.UpdateMessages(chatID, func([]Message) []Message { return msgs })
}

// UpdateMessages applies fn to a chat's current message list and persists the
// result. The collection mutex is held for the whole read-modify-write cycle,
// so a concurrent append cannot fall between the read and the write.
func (s *Store) UpdateMessages(chatID string, fn func([]Message) []Message) []Message {
	s.messagesMu.Lock()
	defer s.messagesMu.Unlock()

	byChat := s.AllMessages()
	msgs := fn(byChat[chatID])
	byChat[chatID] = msgs
	s.write(keyMessages, byChat)
	return msgs
}

// UpdateAllMessages applies fn to the whole chatID -> messages map under the
// collection mutex. fn mutates the map in place and reports whether anything
// changed; an unchanged map is not rewritten. Serves sweeps that rewrite
// several chats in one cycle.
func (s *Store) UpdateAllMessages(fn func(map[string][]Message) bool) {
	s.messagesMu.Lock()
	defer s.messagesMu.Unlock()

	byChat := s.AllMessages()
	if fn(byChat) {
		s.write(keyMessages, byChat)
	}
}

// AppendMessage appends m to its chat and repairs the chat's denormalized
// preview. The two writes are independent; a lost preview update is repaired
// by the next sweep.
func (s *Store) AppendMessage(m Message, preview string) {
	s.UpdateMessages(m.ChatID, func(msgs []Message) []Message {
		return append(msgs, m)
	})

	chat, ok := s.Chat(m.ChatID)
	if !ok {
		return
	}
	chat.LastMessage = preview
	chat.LastMessageTime = m.Timestamp
	s.SaveChat(chat)
}

// newMessage stamps id, timestamp and expiry from the chat's timer in effect
// right now. Timer changes never touch already-created messages.
func (s *Store) newMessage(chatID, senderID string, typ MessageType) Message {
	now := s.now().UnixMilli()
	m := Message{
		ID:        "m" + strconv.FormatInt(now, 10),
		ChatID:    chatID,
		SenderID:  senderID,
		Timestamp: now,
		Type:      typ,
	}
	if chat, ok := s.Chat(chatID); ok {
		if d := chat.DisappearingTimer.Duration(); d > 0 {
			m.ExpiresAt = now + d.Milliseconds()
		}
	}
	return m
}

// SendMessage appends a text message and returns it.
func (s *Store) SendMessage(chatID, content, senderID string) Message {
	m := s.newMessage(chatID, senderID, TextMessage)
	m.Content = content
	s.AppendMessage(m, content)
	return m
}

// Attachment carries the type-specific payload for attachment messages.
type Attachment struct {
	MediaURI    string
	FileName    string
	FileSize    int64
	Latitude    float64
	Longitude   float64
	ContactID   string
	ContactName string
}

func attachmentPreview(typ MessageType, att Attachment) string {
	switch typ {
	case ImageMessage:
		return "Sent a photo"
	case LocationMessage:
		return "Shared location"
	case ContactMessage:
		return "Shared contact: " + att.ContactName
	case DocumentMessage:
		return "Sent a document"
	default:
		return "Sent an attachment"
	}
}

// SendAttachmentMessage appends an image, location, contact or document
// message. The chat preview text is derived from the attachment kind.
func (s *Store) SendAttachmentMessage(chatID, senderID string, typ MessageType, att Attachment) Message {
	m := s.newMessage(chatID, senderID, typ)
	m.Content = attachmentPreview(typ, att)
	m.MediaURI = att.MediaURI
	m.FileName = att.FileName
	m.FileSize = att.FileSize
	m.Latitude = att.Latitude
	m.Longitude = att.Longitude
	m.ContactID = att.ContactID
	m.ContactName = att.ContactName
	s.AppendMessage(m, m.Content)
	return m
}

// SendAudioMessage appends a voice message with a "(m:ss)" duration preview.
func (s *Store) SendAudioMessage(chatID, senderID string, duration time.Duration, uri string) Message {
	secs := int(duration.Seconds())
	m := s.newMessage(chatID, senderID, AudioMessage)
	m.Content = fmt.Sprintf("Voice message (%d:%02d)", secs/60, secs%60)
	m.MediaURI = uri
	m.DurationSec = secs
	s.AppendMessage(m, m.Content)
	return m
}
