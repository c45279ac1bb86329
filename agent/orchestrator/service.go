// Package orchestrator drives the bounded plan/execute loop that turns one
// advisor message into a final reply plus structured side effects.
package orchestrator

import (
	"context"
	"errors"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
	conversationx "github.com/fairmontlabs/advisor-assistant/agent/conversation"
	toolx "github.com/fairmontlabs/advisor-assistant/agent/tool"
)

const (
	defaultStepCeiling = 4
	defaultLLMTimeout  = 30 * time.Second
	titleTimeout       = 5 * time.Second
)

// Reply of last resort when the loop exhausts its steps without any usable
// assistant text.
const fallbackReply = "Mi dispiace, non sono riuscito a completare la richiesta. Riprova tra qualche istante."

// ModelProvider hands out the chat model for a tier. Injected so the core
// stays testable without a live network dependency.
type ModelProvider interface {
	For(tier contractx.ModelTier) (einomodel.ToolCallingChatModel, string)
}

type Service struct {
	store      conversationx.Store
	models     ModelProvider
	registry   *toolx.Registry
	dispatcher *toolx.Dispatcher
	titler     contractx.Titler

	stepCeiling int
	llmTimeout  time.Duration
	now         func() time.Time

	graphRunner compose.Runnable[GraphInput, contractx.ChatResponse]
}

type Option func(*Service)

// WithTitler enables conversation title generation for new threads.
func WithTitler(titler contractx.Titler) Option {
	return func(s *Service) {
		s.titler = titler
	}
}

func WithStepCeiling(ceiling int) Option {
	return func(s *Service) {
		if ceiling > 0 {
			s.stepCeiling = ceiling
		}
	}
}

func WithLLMTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.llmTimeout = timeout
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(
	store conversationx.Store,
	models ModelProvider,
	registry *toolx.Registry,
	dispatcher *toolx.Dispatcher,
	opts ...Option,
) (*Service, error) {
	if store == nil {
		return nil, errors.New("conversation store is required")
	}
	if models == nil {
		return nil, errors.New("model provider is required")
	}
	if registry == nil {
		return nil, errors.New("tool registry is required")
	}
	if dispatcher == nil {
		return nil, errors.New("tool dispatcher is required")
	}

	s := &Service{
		store:       store,
		models:      models,
		registry:    registry,
		dispatcher:  dispatcher,
		stepCeiling: defaultStepCeiling,
		llmTimeout:  defaultLLMTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	graphRunner, err := s.compileChatGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

// Chat handles one inbound advisor message end to end. The returned error is
// reserved for request-level failures (bad input, unauthorized conversation,
// LLM service down); tool failures never surface here.
func (s *Service) Chat(ctx context.Context, advisor contractx.Identity, req contractx.ChatRequest) (contractx.ChatResponse, error) {
	out, err := s.graphRunner.Invoke(ctx, GraphInput{
		Advisor: advisor,
		Request: req,
	})
	if err != nil {
		return contractx.ChatResponse{}, err
	}
	return out, nil
}
