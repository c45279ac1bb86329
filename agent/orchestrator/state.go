package orchestrator

import (
	"encoding/json"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
	conversationx "github.com/fairmontlabs/advisor-assistant/agent/conversation"
)

type GraphInput struct {
	Advisor contractx.Identity
	Request contractx.ChatRequest
}

// graphState is the per-request planning state. It lives for one Chat call
// and is never persisted.
type graphState struct {
	advisor contractx.Identity
	message string
	tier    contractx.ModelTier
	now     time.Time

	model     einomodel.ToolCallingChatModel
	modelName string

	conv *conversationx.Conversation

	// messages is the exact sequence presented to the model: synthesized
	// system prompt, persisted history, then this request's turns in append
	// order.
	messages  []*schema.Message
	outcomes  []contractx.ToolOutcome
	finalText string
}

// replayMessage converts one persisted message back into the model wire
// shape, restoring tool-call correlation.
func replayMessage(msg conversationx.Message) *schema.Message {
	out := &schema.Message{Content: msg.Content}

	switch msg.Role {
	case conversationx.RoleUser:
		out.Role = schema.User
	case conversationx.RoleAssistant:
		out.Role = schema.Assistant
		if len(msg.ToolCalls) > 0 {
			var calls []schema.ToolCall
			if err := json.Unmarshal(msg.ToolCalls, &calls); err == nil {
				out.ToolCalls = calls
			}
		}
	case conversationx.RoleTool:
		out.Role = schema.Tool
		out.ToolCallID = msg.ToolCallID
	default:
		out.Role = schema.System
	}

	return out
}

// encodeOutcome renders a tool outcome as the content of a tool-role
// message, the shape the model reads on the next step.
func encodeOutcome(outcome contractx.ToolOutcome) string {
	body := map[string]any{"success": outcome.Success}
	if outcome.Success {
		body["result"] = outcome.Payload
	} else {
		body["error"] = outcome.Error
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return `{"success":false,"error":"unencodable tool result"}`
	}
	return string(raw)
}
