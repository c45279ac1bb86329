package tool

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

func testRegistry(t *testing.T, defs ...Definition) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			t.Fatalf("Register(%s) error = %v", def.Info.Name, err)
		}
	}
	return r
}

func simpleDefinition(name string, handler Handler) Definition {
	return Definition{
		Info: &schema.ToolInfo{
			Name: name,
			Desc: "test tool",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"value": {Type: schema.String, Desc: "test value", Required: false},
			}),
		},
		Handler: handler,
	}
}

func toolCall(id, name, args string) schema.ToolCall {
	return schema.ToolCall{
		ID: id,
		Function: schema.FunctionCall{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t)
	d, err := NewDispatcher(registry)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	out := d.Dispatch(context.Background(), toolCall("call-1", "nope", "{}"), 7)
	if out.Success {
		t.Fatal("expected failed outcome for unknown tool")
	}
	if !strings.Contains(out.Error, "unknown tool") {
		t.Fatalf("unexpected error: %s", out.Error)
	}
	if out.CallID != "call-1" {
		t.Fatalf("outcome lost call correlation: %s", out.CallID)
	}
}

func TestDispatchMalformedArgumentsFallsBackToEmpty(t *testing.T) {
	t.Parallel()

	var gotArgs map[string]any
	registry := testRegistry(t, simpleDefinition("echo", func(ctx context.Context, args map[string]any, caller contractx.Identity) (any, *contractx.SideEffect, error) {
		gotArgs = args
		return "ok", nil, nil
	}))
	d, err := NewDispatcher(registry)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	out := d.Dispatch(context.Background(), toolCall("call-1", "echo", `{"broken`), 7)
	if !out.Success {
		t.Fatalf("expected handler invoked despite malformed args, got error: %s", out.Error)
	}
	if gotArgs == nil || len(gotArgs) != 0 {
		t.Fatalf("expected empty args fallback, got %#v", gotArgs)
	}
}

func TestDispatchHandlerErrorBecomesFailedOutcome(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t, simpleDefinition("broken", func(ctx context.Context, args map[string]any, caller contractx.Identity) (any, *contractx.SideEffect, error) {
		return nil, nil, errors.New("DB timeout")
	}))
	d, err := NewDispatcher(registry)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	out := d.Dispatch(context.Background(), toolCall("call-1", "broken", "{}"), 7)
	if out.Success {
		t.Fatal("expected failed outcome")
	}
	if out.Error != "DB timeout" {
		t.Fatalf("unexpected error: %s", out.Error)
	}
}

func TestDispatchHandlerPanicBecomesFailedOutcome(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t, simpleDefinition("panicky", func(ctx context.Context, args map[string]any, caller contractx.Identity) (any, *contractx.SideEffect, error) {
		panic("boom")
	}))
	d, err := NewDispatcher(registry)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	out := d.Dispatch(context.Background(), toolCall("call-1", "panicky", "{}"), 7)
	if out.Success {
		t.Fatal("expected failed outcome after panic")
	}
	if !strings.Contains(out.Error, "boom") {
		t.Fatalf("panic message lost: %s", out.Error)
	}
}

func TestDispatchLiftsSideEffect(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t, simpleDefinition("dialog", func(ctx context.Context, args map[string]any, caller contractx.Identity) (any, *contractx.SideEffect, error) {
		return "payload", &contractx.SideEffect{Kind: contractx.SideEffectEmail, Payload: "draft"}, nil
	}))
	d, err := NewDispatcher(registry)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	out := d.Dispatch(context.Background(), toolCall("call-1", "dialog", "{}"), 7)
	if !out.Success {
		t.Fatalf("unexpected failure: %s", out.Error)
	}
	if out.SideEffect == nil || out.SideEffect.Kind != contractx.SideEffectEmail {
		t.Fatalf("side effect not lifted: %#v", out.SideEffect)
	}
}

func TestDispatchSurvivesCancelledRequestContext(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t, simpleDefinition("steady", func(ctx context.Context, args map[string]any, caller contractx.Identity) (any, *contractx.SideEffect, error) {
		// The handler context must stay alive even though the request
		// context is already cancelled.
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		return "done", nil, nil
	}))
	d, err := NewDispatcher(registry)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := d.Dispatch(ctx, toolCall("call-1", "steady", "{}"), 7)
	if !out.Success {
		t.Fatalf("in-flight tool should finish after cancellation, got: %s", out.Error)
	}
}
