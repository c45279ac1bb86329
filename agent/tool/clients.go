package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
	guardx "github.com/fairmontlabs/advisor-assistant/agent/guard"
)

const (
	ToolGetClients       = "getClients"
	ToolGetClientDetails = "getClientDetails"
)

func getClientsDefinition(directory contractx.ClientDirectory) Definition {
	return Definition{
		Info: &schema.ToolInfo{
			Name: ToolGetClients,
			Desc: "Search the advisor's clients by name or email. Returns matching client records.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Free-text search over client name and email. Empty returns the full book.", Required: false},
			}),
		},
		Handler: func(ctx context.Context, args map[string]any, caller contractx.Identity) (any, *contractx.SideEffect, error) {
			clients, err := directory.SearchClients(ctx, caller, stringArg(args, "query"))
			if err != nil {
				return nil, nil, fmt.Errorf("search clients: %w", err)
			}
			return map[string]any{
				"clients": clients,
				"count":   len(clients),
			}, nil, nil
		},
	}
}

func getClientDetailsDefinition(directory contractx.ClientDirectory) Definition {
	return Definition{
		Info: &schema.ToolInfo{
			Name: ToolGetClientDetails,
			Desc: "Fetch one client record by id, including contact details.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"clientId": {Type: schema.Integer, Desc: "Id of the client to fetch.", Required: true},
			}),
		},
		Handler: func(ctx context.Context, args map[string]any, caller contractx.Identity) (any, *contractx.SideEffect, error) {
			id := intArg(args, "clientId")
			if id <= 0 {
				return nil, nil, fmt.Errorf("%w: clientId is required", contractx.ErrValidation)
			}

			client, err := directory.GetClient(ctx, id)
			if err != nil {
				return nil, nil, err
			}
			if err := guardx.Require("client", client.AdvisorID, caller); err != nil {
				return nil, nil, err
			}

			return client, nil, nil
		},
	}
}
