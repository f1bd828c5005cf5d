// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store manages the conversation list, the active conversation
// pointer, and stream generation tracking. All mutations are persisted
// through an injected Persistence port.
package store

import (
	"errors"
	"sync"

	"github.com/jeranaias/chatdeck/internal/model"
)

// ErrNotFound is returned when an operation names a conversation id
// that is not in the list.
var ErrNotFound = errors.New("conversation not found")

// Snapshot is the persisted form of the whole store: every conversation
// plus the active pointer, saved as one document.
type Snapshot struct {
	Conversations []*model.Conversation `json:"conversations"`
	ActiveID      int                   `json:"active_id"`
}

// Persistence loads and saves snapshots. Load returning (nil, nil)
// means no snapshot exists yet; a decode failure is reported as an
// error and the caller starts fresh.
type Persistence interface {
	Load() (*Snapshot, error)
	Save(*Snapshot) error
}

// Store holds the conversation list in memory. The newest conversation
// sits at the front of the slice; this insertion order is what gets
// persisted, display sorting is the view's business.
type Store struct {
	mu            sync.Mutex
	conversations []*model.Conversation
	activeID      int
	generations   map[int]uint64
	persist       Persistence
}

// New builds a store from the persistence port. A missing or corrupt
// snapshot yields a single fresh conversation with id 1.
func New(p Persistence) (*Store, error) {
	s := &Store{
		generations: make(map[int]uint64),
		persist:     p,
	}

	snap, err := p.Load()
	if err != nil || snap == nil || len(snap.Conversations) == 0 {
		s.reset()
		return s, s.save()
	}

	s.conversations = snap.Conversations
	s.activeID = snap.ActiveID
	if s.lookup(s.activeID) == nil {
		s.activeID = s.conversations[0].ID
	}
	return s, nil
}

// reset replaces the list with a single fresh conversation, id 1.
func (s *Store) reset() {
	fresh := model.NewConversation(1)
	s.conversations = []*model.Conversation{fresh}
	s.activeID = fresh.ID
}

func (s *Store) save() error {
	return s.persist.Save(&Snapshot{
		Conversations: s.conversations,
		ActiveID:      s.activeID,
	})
}

func (s *Store) lookup(id int) *model.Conversation {
	for _, c := range s.conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Conversations returns the list in insertion order (newest created
// first).
func (s *Store) Conversations() []*model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// Active returns the active conversation.
func (s *Store) Active() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(s.activeID)
}

// ActiveID returns the id of the active conversation.
func (s *Store) ActiveID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// SetActive switches the active pointer.
func (s *Store) SetActive(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookup(id) == nil {
		return ErrNotFound
	}
	s.activeID = id
	return s.save()
}

// NewConversation prepends a fresh conversation and makes it active.
// Its id is one past the current maximum, or 1 for an empty list.
func (s *Store) NewConversation() (*model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.newConversationLocked()
	return c, s.save()
}

func (s *Store) newConversationLocked() *model.Conversation {
	id := 1
	for _, c := range s.conversations {
		if c.ID >= id {
			id = c.ID + 1
		}
	}
	c := model.NewConversation(id)
	s.conversations = append([]*model.Conversation{c}, s.conversations...)
	s.activeID = c.ID
	return c
}

// Delete removes a conversation. When the active conversation is
// removed, the first remaining one becomes active; deleting the last
// conversation creates a fresh replacement.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, c := range s.conversations {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	s.conversations = append(s.conversations[:idx], s.conversations[idx+1:]...)
	delete(s.generations, id)

	if s.activeID == id {
		if len(s.conversations) > 0 {
			s.activeID = s.conversations[0].ID
		} else {
			s.newConversationLocked()
		}
	}
	return s.save()
}

// ClearAll throws away every conversation and starts over with one
// fresh conversation.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations = make(map[int]uint64)
	s.reset()
	return s.save()
}

// RenameOnFirstMessage derives the conversation title from the outgoing
// text, but only while the thread is still empty. Later sends leave the
// title alone.
func (s *Store) RenameOnFirstMessage(id int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.lookup(id)
	if c == nil {
		return ErrNotFound
	}
	if len(c.Messages) > 0 {
		return nil
	}
	c.Name = model.DeriveTitle(text)
	return s.save()
}

// AppendUserMessage adds a user message to a conversation and returns
// the message id.
func (s *Store) AppendUserMessage(id int, content string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.lookup(id)
	if c == nil {
		return 0, ErrNotFound
	}
	msgID := c.AddUserMessage(content)
	return msgID, s.save()
}

// BeginAssistantStream appends an empty assistant message and bumps
// the stream generation. Chunks carrying an older generation are
// rejected by AppendStreamChunk, which is how a superseded stream gets
// discarded.
func (s *Store) BeginAssistantStream(id int) (msgID int64, gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.lookup(id)
	if c == nil {
		return 0, 0, ErrNotFound
	}
	s.generations[id]++
	msgID = c.AddAssistantMessage("")
	return msgID, s.generations[id], s.save()
}

// EnsureSessionID assigns the conversation a session id if it has
// none. It is called once the backend has actually answered, so a
// conversation that has only ever seen offline fallbacks keeps sending
// a null session.
func (s *Store) EnsureSessionID(id int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.lookup(id)
	if c == nil {
		return "", ErrNotFound
	}
	if c.SessionID != "" {
		return c.SessionID, nil
	}
	c.SessionID = model.NewSessionID()
	return c.SessionID, s.save()
}

// AppendStreamChunk appends a delta to a streaming assistant message.
// It reports false when the chunk belongs to a superseded stream or the
// conversation is gone. Chunks are not persisted individually; the
// caller saves once via FinishStream.
func (s *Store) AppendStreamChunk(id int, gen uint64, msgID int64, delta string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.lookup(id)
	if c == nil || s.generations[id] != gen {
		return false
	}
	return c.AppendToMessage(msgID, delta)
}

// FinishStream persists the conversation after a stream ends. A stale
// generation is a no-op.
func (s *Store) FinishStream(id int, gen uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[id] != gen {
		return nil
	}
	return s.save()
}

// CancelStream bumps the generation so any late chunks from the
// in-flight stream are discarded, keeping whatever partial content has
// already arrived.
func (s *Store) CancelStream(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookup(id) == nil {
		return ErrNotFound
	}
	s.generations[id]++
	return s.save()
}

// Generation returns the current stream generation for a conversation.
func (s *Store) Generation(id int) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[id]
}

// SetMessageContent replaces a message's content, used to surface error
// text in a failed assistant placeholder.
func (s *Store) SetMessageContent(id int, msgID int64, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.lookup(id)
	if c == nil {
		return ErrNotFound
	}
	if !c.SetMessageContent(msgID, content) {
		return ErrNotFound
	}
	return s.save()
}

// TruncateForRegenerate drops the tail of a conversation back to the
// user message nearest the given index and returns that message's
// content for resending.
func (s *Store) TruncateForRegenerate(id int, index int) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.lookup(id)
	if c == nil {
		return "", false, ErrNotFound
	}
	content, ok := c.TruncateForRegenerate(index)
	if !ok {
		return "", false, nil
	}
	return content, true, s.save()
}
