package conversation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/uptrace/bun"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNilMessage           = errors.New("message is nil")
)

// Store is the persistence contract consumed by the orchestrator. Ownership
// is checked at the call site, not inside the store.
type Store interface {
	Create(ctx context.Context, advisor contractx.Identity, title string) (*Conversation, error)
	Get(ctx context.Context, id int64) (*Conversation, error)
	Touch(ctx context.Context, id int64, now time.Time) error
	Append(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, conversationID int64) ([]Message, error)
	ListConversations(ctx context.Context, advisor contractx.Identity) ([]Conversation, error)
	Delete(ctx context.Context, id int64) error
}

// PostgresStore persists conversations in Postgres via bun. Appends are
// serialized per conversation id so concurrent requests on the same thread
// cannot interleave histories.
type PostgresStore struct {
	db    *bun.DB
	locks appendLocks
}

func NewPostgresStore(db *bun.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	return &PostgresStore{db: db}, nil
}

// Migrate creates the conversation tables when they do not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*Conversation)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create conversations table: %w", err)
	}
	if _, err := s.db.NewCreateTable().
		Model((*Message)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create messages table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, advisor contractx.Identity, title string) (*Conversation, error) {
	now := time.Now().UTC()
	conv := &Conversation{
		AdvisorID: advisor,
		Title:     strings.TrimSpace(title),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if conv.Title == "" {
		conv.Title = "Nuova conversazione"
	}

	if _, err := s.db.NewInsert().Model(conv).Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}
	return conv, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*Conversation, error) {
	conv := new(Conversation)
	err := s.db.NewSelect().Model(conv).Where("c.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("select conversation: %w", err)
	}
	return conv, nil
}

func (s *PostgresStore) Touch(ctx context.Context, id int64, now time.Time) error {
	res, err := s.db.NewUpdate().
		Model((*Conversation)(nil)).
		Set("updated_at = ?", now.UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// Append assigns the message timestamp at append time, strictly after the
// previous message of the same conversation.
func (s *PostgresStore) Append(ctx context.Context, msg *Message) error {
	if msg == nil {
		return ErrNilMessage
	}
	if msg.ConversationID == 0 {
		return ErrConversationNotFound
	}

	lock := s.locks.forConversation(msg.ConversationID)
	lock.Lock()
	defer lock.Unlock()

	msg.CreatedAt = lock.nextTimestamp(time.Now().UTC())

	if _, err := s.db.NewInsert().Model(msg).Exec(ctx); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListMessages(ctx context.Context, conversationID int64) ([]Message, error) {
	var msgs []Message
	err := s.db.NewSelect().
		Model(&msgs).
		Where("m.conversation_id = ?", conversationID).
		OrderExpr("m.created_at ASC, m.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}
	return msgs, nil
}

func (s *PostgresStore) ListConversations(ctx context.Context, advisor contractx.Identity) ([]Conversation, error) {
	var convs []Conversation
	err := s.db.NewSelect().
		Model(&convs).
		Where("c.advisor_id = ?", advisor).
		OrderExpr("c.updated_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select conversations: %w", err)
	}
	return convs, nil
}

// Delete removes a conversation and cascades to its messages.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.NewDelete().
		Model((*Message)(nil)).
		Where("conversation_id = ?", id).
		Exec(ctx); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	if _, err := s.db.NewDelete().
		Model((*Conversation)(nil)).
		Where("id = ?", id).
		Exec(ctx); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

// appendLocks hands out one lock per conversation id.
type appendLocks struct {
	mu   sync.Mutex
	byID map[int64]*convLock
}

type convLock struct {
	sync.Mutex
	lastAt time.Time
}

func (l *appendLocks) forConversation(id int64) *convLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.byID == nil {
		l.byID = make(map[int64]*convLock)
	}
	lock, ok := l.byID[id]
	if !ok {
		lock = &convLock{}
		l.byID[id] = lock
	}
	return lock
}

// nextTimestamp keeps per-conversation timestamps strictly monotonic even
// when the clock does not advance between appends. Caller holds the lock.
func (l *convLock) nextTimestamp(now time.Time) time.Time {
	if !now.After(l.lastAt) {
		now = l.lastAt.Add(time.Microsecond)
	}
	l.lastAt = now
	return now
}
