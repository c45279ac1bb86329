package conversation

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreAppendOrdering(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	conv, err := store.Create(ctx, 7, "test")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	roles := []Role{RoleUser, RoleAssistant, RoleTool, RoleAssistant}
	for i, role := range roles {
		msg := &Message{ConversationID: conv.ID, Role: role, Content: string(rune('a' + i))}
		if err := store.Append(ctx, msg); err != nil {
			t.Fatalf("Append(%d) error = %v", i, err)
		}
	}

	msgs, err := store.ListMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	if len(msgs) != len(roles) {
		t.Fatalf("expected %d messages, got %d", len(roles), len(msgs))
	}
	for i := 1; i < len(msgs); i++ {
		if !msgs[i].CreatedAt.After(msgs[i-1].CreatedAt) {
			t.Fatalf("timestamps not strictly increasing at index %d", i)
		}
		if msgs[i].Role != roles[i] {
			t.Fatalf("message %d out of order: got role %s, want %s", i, msgs[i].Role, roles[i])
		}
	}
}

func TestMemoryStoreAppendUnknownConversation(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	err := store.Append(context.Background(), &Message{ConversationID: 42, Role: RoleUser})
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestMemoryStoreDeleteCascades(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	conv, err := store.Create(ctx, 7, "to delete")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Append(ctx, &Message{ConversationID: conv.ID, Role: RoleUser, Content: "ciao"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if err := store.Delete(ctx, conv.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := store.Get(ctx, conv.ID); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected conversation gone, got %v", err)
	}
	msgs, err := store.ListMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected cascaded delete, found %d messages", len(msgs))
	}
}

func TestMemoryStoreTouchBumpsUpdatedAt(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	conv, err := store.Create(ctx, 7, "touch")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	later := conv.UpdatedAt.Add(time.Minute)
	if err := store.Touch(ctx, conv.ID, later); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}

	got, err := store.Get(ctx, conv.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.UpdatedAt.Equal(later) {
		t.Fatalf("UpdatedAt = %v, want %v", got.UpdatedAt, later)
	}
}
