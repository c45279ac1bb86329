package llm

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

// ModelSet holds one chat model per tier, built once at startup and injected
// into the orchestrator.
type ModelSet struct {
	standard     einomodel.ToolCallingChatModel
	advanced     einomodel.ToolCallingChatModel
	standardName string
	advancedName string
}

func NewModelSet(ctx context.Context, cfg Config) (*ModelSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	standardCfg := cfg.OpenRouterFor(contractx.ModelTierStandard)
	standard, err := standardCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create standard model: %v", contractx.ErrModelInvoke, err)
	}

	set := &ModelSet{
		standard:     standard,
		standardName: cfg.ModelName(contractx.ModelTierStandard),
	}

	if strings.TrimSpace(cfg.AdvancedModel) != "" {
		advancedCfg := cfg.OpenRouterFor(contractx.ModelTierAdvanced)
		advanced, err := advancedCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create advanced model: %v", contractx.ErrModelInvoke, err)
		}
		set.advanced = advanced
		set.advancedName = cfg.ModelName(contractx.ModelTierAdvanced)
	}

	return set, nil
}

// For returns the model and its name for a tier, falling back to the
// standard tier when no advanced model is configured.
func (m *ModelSet) For(tier contractx.ModelTier) (einomodel.ToolCallingChatModel, string) {
	if tier == contractx.ModelTierAdvanced && m.advanced != nil {
		return m.advanced, m.advancedName
	}
	return m.standard, m.standardName
}
