package orchestrator

import (
	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

// assembleResponse folds the planning state into the outbound response.
// Side effects are deduplicated per kind with a last-writer-wins policy:
// when the model invokes the same dialog-producing tool twice in one
// request, only the final invocation's payload reaches the client.
func assembleResponse(st *graphState) contractx.ChatResponse {
	resp := contractx.ChatResponse{
		Success:        true,
		Response:       st.finalText,
		ConversationID: st.conv.ID,
		Model:          st.modelName,
		ToolOutcomes:   st.outcomes,
	}
	if resp.Response == "" {
		resp.Response = fallbackReply
	}

	for _, outcome := range st.outcomes {
		if outcome.SideEffect == nil {
			continue
		}
		switch outcome.SideEffect.Kind {
		case contractx.SideEffectMeeting:
			resp.SideEffects.Meeting = outcome.SideEffect.Payload
		case contractx.SideEffectEmail:
			resp.SideEffects.Email = outcome.SideEffect.Payload
		case contractx.SideEffectPortfolio:
			resp.SideEffects.Portfolio = outcome.SideEffect.Payload
		}
	}

	return resp
}
