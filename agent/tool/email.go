package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
	guardx "github.com/fairmontlabs/advisor-assistant/agent/guard"
)

const ToolComposeEmailData = "composeEmailData"

func composeEmailDataDefinition(directory contractx.ClientDirectory) Definition {
	return Definition{
		Info: &schema.ToolInfo{
			Name: ToolComposeEmailData,
			Desc: "Prepare an email draft addressed to one of the advisor's clients. The advisor reviews it before anything is sent.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"clientId": {Type: schema.Integer, Desc: "Id of the recipient client.", Required: true},
				"subject":  {Type: schema.String, Desc: "Email subject.", Required: true},
				"body":     {Type: schema.String, Desc: "Email body, plain text.", Required: true},
			}),
		},
		Handler: func(ctx context.Context, args map[string]any, caller contractx.Identity) (any, *contractx.SideEffect, error) {
			id := intArg(args, "clientId")
			if id <= 0 {
				return nil, nil, fmt.Errorf("%w: clientId is required", contractx.ErrValidation)
			}
			subject := stringArg(args, "subject")
			if subject == "" {
				return nil, nil, fmt.Errorf("%w: subject is required", contractx.ErrValidation)
			}

			client, err := directory.GetClient(ctx, id)
			if err != nil {
				return nil, nil, err
			}
			if err := guardx.Require("client", client.AdvisorID, caller); err != nil {
				return nil, nil, err
			}

			draft := contractx.EmailDraft{
				ClientID: client.ID,
				To:       client.Email,
				Subject:  subject,
				Body:     stringArg(args, "body"),
			}

			effect := &contractx.SideEffect{Kind: contractx.SideEffectEmail, Payload: draft}
			return draft, effect, nil
		},
	}
}
