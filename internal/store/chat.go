package store

import "strconv"

// Chats returns every chat, or an empty slice on adapter failure.
func (s *Store) Chats() []Chat {
	var chats []Chat
	s.read(keyChats, &chats)
	return chats
}

// Chat returns a single chat by id.
func (s *Store) Chat(id string) (Chat, bool) {
	for _, c := range s.Chats() {
		if c.ID == id {
			return c, true
		}
	}
	return Chat{}, false
}

// SaveChat inserts or replaces a chat by id.
func (s *Store) SaveChat(c Chat) {
	s.chatsMu.Lock()
	defer s.chatsMu.Unlock()

	chats := s.Chats()
	for i := range chats {
		if chats[i].ID == c.ID {
			chats[i] = c
			s.write(keyChats, chats)
			return
		}
	}
	s.write(keyChats, append(chats, c))
}

// CreateChat returns the existing 1:1 chat for the contact, or creates one.
// Creation is idempotent: a direct chat is identified by its participant's
// contact id.
func (s *Store) CreateChat(contact Contact) Chat {
	s.chatsMu.Lock()
	chats := s.Chats()
	for _, c := range chats {
		if c.IsGroup {
			continue
		}
		for _, p := range c.Participants {
			if p.ID == contact.ID {
				s.chatsMu.Unlock()
				return c
			}
		}
	}
	chat := Chat{
		ID:                "c" + strconv.FormatInt(s.now().UnixMilli(), 10),
		Participants:      []Contact{contact},
		Name:              contact.Name,
		DisappearingTimer: TimerOff,
	}
	s.write(keyChats, append(chats, chat))
	s.chatsMu.Unlock()

	s.SaveContact(contact)
	return chat
}

// Contacts returns every cached contact.
func (s *Store) Contacts() []Contact {
	var contacts []Contact
	s.read(keyContacts, &contacts)
	return contacts
}

// SaveContact inserts or replaces a contact by id.
func (s *Store) SaveContact(c Contact) {
	s.contactsMu.Lock()
	defer s.contactsMu.Unlock()

	contacts := s.Contacts()
	for i := range contacts {
		if contacts[i].ID == c.ID {
			contacts[i] = c
			s.write(keyContacts, contacts)
			return
		}
	}
	s.write(keyContacts, append(contacts, c))
}
