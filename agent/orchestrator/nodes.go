package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
	conversationx "github.com/fairmontlabs/advisor-assistant/agent/conversation"
	guardx "github.com/fairmontlabs/advisor-assistant/agent/guard"
	llmx "github.com/fairmontlabs/advisor-assistant/agent/llm"
	promptx "github.com/fairmontlabs/advisor-assistant/agent/prompt"
)

func (s *Service) validateRequest(in GraphInput) (*graphState, error) {
	if in.Advisor == 0 {
		return nil, fmt.Errorf("%w: caller identity is required", contractx.ErrValidation)
	}

	message := strings.TrimSpace(in.Request.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", contractx.ErrValidation)
	}

	tier := in.Request.ModelTier
	if tier == "" {
		tier = contractx.ModelTierStandard
	}

	st := &graphState{
		advisor: in.Advisor,
		message: message,
		tier:    tier,
		now:     s.now().UTC(),
	}

	model, modelName := s.models.For(tier)
	toolModel, err := model.WithTools(s.registry.Infos())
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
	}
	st.model = toolModel
	st.modelName = modelName

	if id := in.Request.ConversationID; id != 0 {
		st.conv = &conversationx.Conversation{ID: id}
	}
	return st, nil
}

// resolveConversation loads the target thread and verifies ownership, or
// starts a new one titled after the opening message.
func (s *Service) resolveConversation(ctx context.Context, st *graphState) (*graphState, error) {
	if st.conv != nil {
		conv, err := s.store.Get(ctx, st.conv.ID)
		if err != nil {
			return nil, err
		}
		if err := guardx.Require("conversation", conv.AdvisorID, st.advisor); err != nil {
			return nil, err
		}
		st.conv = conv
		return st, nil
	}

	title := llmx.FallbackTitle(st.message)
	if s.titler != nil {
		titleCtx, cancel := context.WithTimeout(ctx, titleTimeout)
		generated, err := s.titler.Title(titleCtx, st.message)
		cancel()
		if err == nil {
			title = generated
		} else {
			log.Debug().Err(err).Msg("title generation failed, using fallback")
		}
	}

	conv, err := s.store.Create(ctx, st.advisor, title)
	if err != nil {
		return nil, err
	}
	st.conv = conv
	return st, nil
}

// loadHistory builds the model replay (system prompt first, then persisted
// history in createdAt order) and appends the new user message to both the
// store and the replay.
func (s *Service) loadHistory(ctx context.Context, st *graphState) (*graphState, error) {
	history, err := s.store.ListMessages(ctx, st.conv.ID)
	if err != nil {
		return nil, err
	}

	st.messages = make([]*schema.Message, 0, len(history)+2)
	st.messages = append(st.messages, &schema.Message{
		Role:    schema.System,
		Content: promptx.System(st.now),
	})
	for _, msg := range history {
		st.messages = append(st.messages, replayMessage(msg))
	}

	if err := s.appendStoreMessage(ctx, st, conversationx.RoleUser, st.message, "", nil); err != nil {
		return nil, err
	}
	st.messages = append(st.messages, &schema.Message{
		Role:    schema.User,
		Content: st.message,
	})

	return st, nil
}

// finalizeResponse persists the assistant's final text, bumps the
// conversation, and folds the planning state into the outbound response.
func (s *Service) finalizeResponse(ctx context.Context, st *graphState) (contractx.ChatResponse, error) {
	if strings.TrimSpace(st.finalText) == "" {
		st.finalText = fallbackReply
	}

	if err := s.appendStoreMessage(ctx, st, conversationx.RoleAssistant, st.finalText, "", nil); err != nil {
		return contractx.ChatResponse{}, err
	}
	if err := s.store.Touch(ctx, st.conv.ID, s.now()); err != nil {
		return contractx.ChatResponse{}, err
	}

	return assembleResponse(st), nil
}

func (s *Service) appendStoreMessage(
	ctx context.Context,
	st *graphState,
	role conversationx.Role,
	content string,
	toolCallID string,
	toolCalls []schema.ToolCall,
) error {
	msg := &conversationx.Message{
		ConversationID: st.conv.ID,
		Role:           role,
		Content:        content,
		ToolCallID:     toolCallID,
	}
	if len(toolCalls) > 0 {
		raw, err := json.Marshal(toolCalls)
		if err != nil {
			return fmt.Errorf("marshal tool calls: %w", err)
		}
		msg.ToolCalls = raw
	}
	return s.store.Append(ctx, msg)
}
