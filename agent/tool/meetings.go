package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
	guardx "github.com/fairmontlabs/advisor-assistant/agent/guard"
)

const (
	ToolGetMeetingsByDateRange = "getMeetingsByDateRange"
	ToolCreateMeetingData      = "createMeetingData"
)

const defaultMeetingDuration = time.Hour

func getMeetingsByDateRangeDefinition(book contractx.MeetingBook) Definition {
	return Definition{
		Info: &schema.ToolInfo{
			Name: ToolGetMeetingsByDateRange,
			Desc: "List the advisor's meetings between two dates.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"from": {Type: schema.String, Desc: "Range start, ISO date (YYYY-MM-DD). Defaults to today.", Required: false},
				"to":   {Type: schema.String, Desc: "Range end, exclusive, ISO date. Defaults to seven days after from.", Required: false},
			}),
		},
		Handler: func(ctx context.Context, args map[string]any, caller contractx.Identity) (any, *contractx.SideEffect, error) {
			now := time.Now().UTC()
			from, ok := timeArg(args, "from")
			if !ok {
				from = now.Truncate(24 * time.Hour)
			}
			to, ok := timeArg(args, "to")
			if !ok {
				to = from.AddDate(0, 0, 7)
			}
			if !to.After(from) {
				return nil, nil, fmt.Errorf("%w: to must be after from", contractx.ErrValidation)
			}

			meetings, err := book.MeetingsInRange(ctx, caller, from, to)
			if err != nil {
				return nil, nil, fmt.Errorf("list meetings: %w", err)
			}
			for _, m := range meetings {
				if err := guardx.Require("meeting", m.AdvisorID, caller); err != nil {
					return nil, nil, err
				}
			}

			return map[string]any{
				"from":     from,
				"to":       to,
				"meetings": meetings,
				"count":    len(meetings),
			}, nil, nil
		},
	}
}

func createMeetingDataDefinition(directory contractx.ClientDirectory) Definition {
	return Definition{
		Info: &schema.ToolInfo{
			Name: ToolCreateMeetingData,
			Desc: "Prepare a meeting draft for the advisor to confirm. Does not book anything by itself.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"clientId": {Type: schema.Integer, Desc: "Id of the client the meeting is with, when known.", Required: false},
				"title":    {Type: schema.String, Desc: "Short meeting title.", Required: true},
				"startsAt": {Type: schema.String, Desc: "Start time, ISO 8601.", Required: true},
				"endsAt":   {Type: schema.String, Desc: "End time, ISO 8601. Defaults to one hour after start.", Required: false},
				"location": {Type: schema.String, Desc: "Meeting place or video link.", Required: false},
				"notes":    {Type: schema.String, Desc: "Preparation notes.", Required: false},
			}),
		},
		Handler: func(ctx context.Context, args map[string]any, caller contractx.Identity) (any, *contractx.SideEffect, error) {
			startsAt, ok := timeArg(args, "startsAt")
			if !ok {
				return nil, nil, fmt.Errorf("%w: startsAt is required", contractx.ErrValidation)
			}
			endsAt, ok := timeArg(args, "endsAt")
			if !ok {
				endsAt = startsAt.Add(defaultMeetingDuration)
			}
			if !endsAt.After(startsAt) {
				return nil, nil, fmt.Errorf("%w: endsAt must be after startsAt", contractx.ErrValidation)
			}

			draft := contractx.MeetingDraft{
				Title:    stringArg(args, "title"),
				StartsAt: startsAt,
				EndsAt:   endsAt,
				Location: stringArg(args, "location"),
				Notes:    stringArg(args, "notes"),
			}
			if draft.Title == "" {
				return nil, nil, fmt.Errorf("%w: title is required", contractx.ErrValidation)
			}

			if id := intArg(args, "clientId"); id > 0 {
				client, err := directory.GetClient(ctx, id)
				if err != nil {
					return nil, nil, err
				}
				if err := guardx.Require("client", client.AdvisorID, caller); err != nil {
					return nil, nil, err
				}
				draft.ClientID = client.ID
				draft.ClientName = client.FirstName + " " + client.LastName
			}

			effect := &contractx.SideEffect{Kind: contractx.SideEffectMeeting, Payload: draft}
			return draft, effect, nil
		},
	}
}
