// Package tool declares the assistant's tool surface: a static registry of
// schema-described tools and the dispatcher that executes model-requested
// calls behind a failure boundary.
package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

// Handler executes one tool call on behalf of the calling advisor. It
// returns the payload, an optional UI side effect, or an error; the
// dispatcher folds all three into a ToolOutcome.
type Handler func(ctx context.Context, args map[string]any, caller contractx.Identity) (any, *contractx.SideEffect, error)

type Definition struct {
	Info    *schema.ToolInfo
	Handler Handler
}

// Registry maps tool names to definitions. Populated once at startup; adding
// a tool requires no orchestrator changes.
type Registry struct {
	defs  map[string]Definition
	order []string
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

func (r *Registry) Register(def Definition) error {
	if def.Info == nil || strings.TrimSpace(def.Info.Name) == "" {
		return fmt.Errorf("%w: tool name is required", contractx.ErrValidation)
	}
	if def.Handler == nil {
		return fmt.Errorf("%w: tool %s has no handler", contractx.ErrValidation, def.Info.Name)
	}
	name := def.Info.Name
	if _, exists := r.defs[name]; exists {
		return fmt.Errorf("%w: tool %s registered twice", contractx.ErrValidation, name)
	}
	r.defs[name] = def
	r.order = append(r.order, name)
	return nil
}

func (r *Registry) Lookup(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Infos returns the tool schemas in registration order, ready for binding to
// the chat model.
func (r *Registry) Infos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, r.defs[name].Info)
	}
	return infos
}

// Deps are the backend boundaries the advisor tools call into.
type Deps struct {
	Clients    contractx.ClientDirectory
	Meetings   contractx.MeetingBook
	Portfolios contractx.PortfolioBuilder
	News       contractx.NewsProvider
}

// DefaultRegistry registers the full advisor tool set.
func DefaultRegistry(deps Deps) (*Registry, error) {
	r := NewRegistry()

	defs := []Definition{
		getClientsDefinition(deps.Clients),
		getClientDetailsDefinition(deps.Clients),
		getMeetingsByDateRangeDefinition(deps.Meetings),
		createMeetingDataDefinition(deps.Clients),
		composeEmailDataDefinition(deps.Clients),
		generatePortfolioDefinition(deps.Portfolios),
		getFinancialNewsDefinition(deps.News),
		calculateDefinition(),
	}

	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return nil, err
		}
	}
	return r, nil
}
