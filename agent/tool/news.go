package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

const ToolGetFinancialNews = "getFinancialNews"

const maxNewsItems = 10

func getFinancialNewsDefinition(provider contractx.NewsProvider) Definition {
	return Definition{
		Info: &schema.ToolInfo{
			Name: ToolGetFinancialNews,
			Desc: "Fetch recent financial market news, optionally filtered by topic.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"topic": {Type: schema.String, Desc: "Topic or instrument to filter by, e.g. 'ECB rates' or 'FTSE MIB'.", Required: false},
				"limit": {Type: schema.Integer, Desc: "Maximum number of headlines, default 5.", Required: false},
			}),
		},
		Handler: func(ctx context.Context, args map[string]any, caller contractx.Identity) (any, *contractx.SideEffect, error) {
			limit := int(intArg(args, "limit"))
			if limit <= 0 {
				limit = 5
			}
			if limit > maxNewsItems {
				limit = maxNewsItems
			}

			items, err := provider.Latest(ctx, stringArg(args, "topic"), limit)
			if err != nil {
				return nil, nil, fmt.Errorf("fetch news: %w", err)
			}

			return map[string]any{
				"items": items,
				"count": len(items),
			}, nil, nil
		},
	}
}
