package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

func (s *Service) compileChatGraph(
	ctx context.Context,
) (compose.Runnable[GraphInput, contractx.ChatResponse], error) {
	graph := compose.NewGraph[GraphInput, contractx.ChatResponse]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in GraphInput) (*graphState, error) {
			return s.validateRequest(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("resolve_conversation",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			return s.resolveConversation(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node resolve_conversation: %w", err)
	}

	if err := graph.AddLambdaNode("load_history",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			return s.loadHistory(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_history: %w", err)
	}

	if err := graph.AddLambdaNode("run_planning",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			return s.runPlanning(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node run_planning: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_response",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (contractx.ChatResponse, error) {
			return s.finalizeResponse(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_response: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "resolve_conversation"},
		{"resolve_conversation", "load_history"},
		{"load_history", "run_planning"},
		{"run_planning", "finalize_response"},
		{"finalize_response", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("assistant.chat"))
	if err != nil {
		return nil, fmt.Errorf("compile chat graph: %w", err)
	}
	return runner, nil
}
