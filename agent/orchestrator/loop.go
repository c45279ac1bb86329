package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
	conversationx "github.com/fairmontlabs/advisor-assistant/agent/conversation"
)

// runPlanning is the core state machine. Each step is one model round-trip:
// free text with no tool calls terminates the loop; tool calls are executed
// sequentially in request order, their outcomes fed back as tool messages
// for the next step. The ceiling bounds the loop; exhausting it degrades to
// the last assistant text seen (or the fixed fallback), never an error.
func (s *Service) runPlanning(ctx context.Context, st *graphState) (*graphState, error) {
	lastText := ""

	for step := 1; step <= s.stepCeiling; step++ {
		// Honor client disconnects between steps, but never mid-tool.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		reply, err := s.generate(ctx, st)
		if err != nil {
			return nil, err
		}

		content := strings.TrimSpace(reply.Content)
		if content != "" {
			lastText = content
		}

		if len(reply.ToolCalls) == 0 {
			if content == "" {
				content = fallbackReply
			}
			st.finalText = content
			return st, nil
		}

		log.Debug().
			Int("step", step).
			Int("tool_calls", len(reply.ToolCalls)).
			Int64("conversation_id", st.conv.ID).
			Msg("model requested tools")

		if err := s.executeToolTurn(ctx, st, reply); err != nil {
			return nil, err
		}
	}

	log.Info().
		Int("ceiling", s.stepCeiling).
		Int64("conversation_id", st.conv.ID).
		Msg("planning ceiling reached, degrading to best-effort reply")

	if lastText == "" {
		lastText = fallbackReply
	}
	st.finalText = lastText
	return st, nil
}

// generate performs one model call under its own timeout. A failure here is
// the one error class that aborts the whole request.
func (s *Service) generate(ctx context.Context, st *graphState) (*schema.Message, error) {
	genCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	reply, err := st.model.Generate(genCtx, st.messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	if reply == nil {
		return nil, fmt.Errorf("%w: model returned no message", contractx.ErrModelInvoke)
	}
	return reply, nil
}

// executeToolTurn appends the assistant turn that requested the tools, then
// dispatches every call in request order, appending exactly one tool-role
// message per outcome. A failing tool becomes a failed outcome the model
// reads on the next step; it never aborts the turn.
func (s *Service) executeToolTurn(ctx context.Context, st *graphState, reply *schema.Message) error {
	assistant := &schema.Message{
		Role:      schema.Assistant,
		Content:   reply.Content,
		ToolCalls: reply.ToolCalls,
	}
	st.messages = append(st.messages, assistant)
	if err := s.appendStoreMessage(ctx, st, conversationx.RoleAssistant, reply.Content, "", reply.ToolCalls); err != nil {
		return err
	}

	for _, call := range reply.ToolCalls {
		outcome := s.dispatcher.Dispatch(ctx, call, st.advisor)
		st.outcomes = append(st.outcomes, outcome)

		toolMsg := &schema.Message{
			Role:       schema.Tool,
			Content:    encodeOutcome(outcome),
			ToolCallID: call.ID,
		}
		st.messages = append(st.messages, toolMsg)
		if err := s.appendStoreMessage(ctx, st, conversationx.RoleTool, toolMsg.Content, call.ID, nil); err != nil {
			return err
		}
	}

	return nil
}
