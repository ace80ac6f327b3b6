package store

// transparentBackground is the sentinel the UI sends to reset a chat to the
// default wallpaper. It is deleted rather than stored.
const transparentBackground = "transparent"

// ChatBackground returns the per-chat wallpaper override, or "" when unset.
func (s *Store) ChatBackground(chatID string) string {
	byChat := make(map[string]string)
	s.read(keyBackgrounds, &byChat)
	return byChat[chatID]
}

// SetChatBackground stores a per-chat wallpaper override. An empty or
// transparent value removes the entry to keep the namespace small.
func (s *Store) SetChatBackground(chatID, background string) {
	s.bgMu.Lock()
	defer s.bgMu.Unlock()

	byChat := make(map[string]string)
	s.read(keyBackgrounds, &byChat)
	if background == "" || background == transparentBackground {
		delete(byChat, chatID)
	} else {
		byChat[chatID] = background
	}
	s.write(keyBackgrounds, byChat)
}
