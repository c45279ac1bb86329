package conversation

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleSystem    Role = "system"
)

// Conversation is owned by exactly one advisor. UpdatedAt is bumped on every
// appended message.
type Conversation struct {
	bun.BaseModel `bun:"table:conversations,alias:c"`

	ID        int64              `bun:"id,pk,autoincrement" json:"id"`
	AdvisorID contractx.Identity `bun:"advisor_id,notnull" json:"advisor_id"`
	Title     string             `bun:"title,notnull" json:"title"`
	CreatedAt time.Time          `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time          `bun:"updated_at,notnull" json:"updated_at"`
}

// Message is an append-only log entry. Tool-role messages carry the
// ToolCallID of the assistant turn that requested them; assistant turns that
// requested tools carry the serialized tool calls. The per-request system
// message is synthesized on the fly and never persisted.
type Message struct {
	bun.BaseModel `bun:"table:messages,alias:m"`

	ID             int64           `bun:"id,pk,autoincrement" json:"id"`
	ConversationID int64           `bun:"conversation_id,notnull" json:"conversation_id"`
	Role           Role            `bun:"role,notnull" json:"role"`
	Content        string          `bun:"content" json:"content"`
	ToolCallID     string          `bun:"tool_call_id,nullzero" json:"tool_call_id,omitempty"`
	ToolCalls      json.RawMessage `bun:"tool_calls,type:jsonb,nullzero" json:"tool_calls,omitempty"`
	CreatedAt      time.Time       `bun:"created_at,notnull" json:"created_at"`
}
