package conversation

import (
	"context"
	"sort"
	"sync"
	"time"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

// MemoryStore is an in-process Store used by tests and the dev harness when
// no database is configured. Same ordering guarantees as the Postgres store.
type MemoryStore struct {
	mu       sync.Mutex
	nextConv int64
	nextMsg  int64
	convs    map[int64]*Conversation
	msgs     map[int64][]Message
	lastAt   map[int64]time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextConv: 1,
		nextMsg:  1,
		convs:    make(map[int64]*Conversation),
		msgs:     make(map[int64][]Message),
		lastAt:   make(map[int64]time.Time),
	}
}

func (s *MemoryStore) Create(ctx context.Context, advisor contractx.Identity, title string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	conv := &Conversation{
		ID:        s.nextConv,
		AdvisorID: advisor,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextConv++
	s.convs[conv.ID] = conv

	out := *conv
	return &out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	out := *conv
	return &out, nil
}

func (s *MemoryStore) Touch(ctx context.Context, id int64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[id]
	if !ok {
		return ErrConversationNotFound
	}
	conv.UpdatedAt = now.UTC()
	return nil
}

func (s *MemoryStore) Append(ctx context.Context, msg *Message) error {
	if msg == nil {
		return ErrNilMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.convs[msg.ConversationID]; !ok {
		return ErrConversationNotFound
	}

	now := time.Now().UTC()
	if last := s.lastAt[msg.ConversationID]; !now.After(last) {
		now = last.Add(time.Microsecond)
	}
	s.lastAt[msg.ConversationID] = now

	msg.ID = s.nextMsg
	s.nextMsg++
	msg.CreatedAt = now

	s.msgs[msg.ConversationID] = append(s.msgs[msg.ConversationID], *msg)
	return nil
}

func (s *MemoryStore) ListMessages(ctx context.Context, conversationID int64) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.msgs[conversationID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) ListConversations(ctx context.Context, advisor contractx.Identity) ([]Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Conversation
	for _, conv := range s.convs {
		if conv.AdvisorID == advisor {
			out = append(out, *conv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.convs, id)
	delete(s.msgs, id)
	delete(s.lastAt, id)
	return nil
}
