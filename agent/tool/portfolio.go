package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

const ToolGeneratePortfolio = "generatePortfolio"

func generatePortfolioDefinition(builder contractx.PortfolioBuilder) Definition {
	return Definition{
		Info: &schema.ToolInfo{
			Name: ToolGeneratePortfolio,
			Desc: "Build a model portfolio allocation for an investable amount and risk profile.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"riskProfile": {Type: schema.String, Desc: "One of: conservative, balanced, aggressive. Defaults to balanced.", Required: false},
				"amount":      {Type: schema.Number, Desc: "Investable amount in EUR.", Required: true},
			}),
		},
		Handler: func(ctx context.Context, args map[string]any, caller contractx.Identity) (any, *contractx.SideEffect, error) {
			amount := floatArg(args, "amount")
			if amount <= 0 {
				return nil, nil, fmt.Errorf("%w: amount must be positive", contractx.ErrValidation)
			}

			portfolio, err := builder.Build(ctx, caller, stringArg(args, "riskProfile"), amount)
			if err != nil {
				return nil, nil, err
			}

			effect := &contractx.SideEffect{Kind: contractx.SideEffectPortfolio, Payload: portfolio}
			return portfolio, effect, nil
		},
	}
}
