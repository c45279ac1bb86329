package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

const defaultToolTimeout = 10 * time.Second

// Dispatcher resolves and executes tool calls requested by the model. It
// guarantees exactly one outcome per call: unknown names, handler errors,
// timeouts, and handler panics all become failed outcomes, never request
// failures.
type Dispatcher struct {
	registry *Registry
	timeout  time.Duration
}

type DispatcherOption func(*Dispatcher)

func WithToolTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

func NewDispatcher(registry *Registry, opts ...DispatcherOption) (*Dispatcher, error) {
	if registry == nil {
		return nil, fmt.Errorf("%w: tool registry is required", contractx.ErrValidation)
	}
	d := &Dispatcher{registry: registry, timeout: defaultToolTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

func (d *Dispatcher) Dispatch(ctx context.Context, call schema.ToolCall, caller contractx.Identity) contractx.ToolOutcome {
	name := strings.TrimSpace(call.Function.Name)
	outcome := contractx.ToolOutcome{Tool: name, CallID: call.ID}

	def, ok := d.registry.Lookup(name)
	if !ok {
		outcome.Error = fmt.Sprintf("%s: %q", contractx.ErrUnknownTool.Error(), name)
		return outcome
	}

	args := parseArguments(name, call.Function.Arguments)

	payload, effect, err := d.invoke(ctx, def, args, caller)
	if err != nil {
		log.Warn().
			Str("tool", name).
			Str("call_id", call.ID).
			Int64("caller_id", int64(caller)).
			Err(err).
			Msg("tool invocation failed")
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Success = true
	outcome.Payload = payload
	outcome.SideEffect = effect
	return outcome
}

// invoke runs the handler with its own timeout, detached from request
// cancellation so an in-flight tool finishes instead of leaving a partial
// external side effect behind.
func (d *Dispatcher) invoke(ctx context.Context, def Definition, args map[string]any, caller contractx.Identity) (payload any, effect *contractx.SideEffect, err error) {
	defer func() {
		if r := recover(); r != nil {
			payload, effect = nil, nil
			err = fmt.Errorf("tool handler panic: %v", r)
		}
	}()

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	return def.Handler(callCtx, args, caller)
}
