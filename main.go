package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	advisoryx "github.com/fairmontlabs/advisor-assistant/agent/advisory"
	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
	conversationx "github.com/fairmontlabs/advisor-assistant/agent/conversation"
	llmx "github.com/fairmontlabs/advisor-assistant/agent/llm"
	orchestratorx "github.com/fairmontlabs/advisor-assistant/agent/orchestrator"
	toolx "github.com/fairmontlabs/advisor-assistant/agent/tool"
	configx "github.com/fairmontlabs/advisor-assistant/pkg/config"
	_ "github.com/fairmontlabs/advisor-assistant/pkg/logger/autoload"
	newsfeedx "github.com/fairmontlabs/advisor-assistant/pkg/newsfeed"
	openrouterx "github.com/fairmontlabs/advisor-assistant/pkg/openrouter"
)

type AppConfig struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	AdvisorID   int64  `envconfig:"ADVISOR_ID" default:"1"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")

	ctx := context.Background()

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(appCfg.DatabaseURL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	convStore, err := conversationx.NewPostgresStore(db)
	if err != nil {
		log.Fatal().Err(err).Msg("create conversation store")
	}
	if err := convStore.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("migrate conversation store")
	}

	advStore, err := advisoryx.NewStore(db)
	if err != nil {
		log.Fatal().Err(err).Msg("create advisory store")
	}
	if err := advStore.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("migrate advisory store")
	}

	var news contractx.NewsProvider = advisoryx.UnconfiguredNews{}
	if newsCfg, err := configx.New[newsfeedx.Config]("NEWSFEED"); err == nil {
		client, err := newsfeedx.NewClient(*newsCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("create newsfeed client")
		}
		gateway, err := advisoryx.NewNewsGateway(client)
		if err != nil {
			log.Fatal().Err(err).Msg("create news gateway")
		}
		news = gateway
	}

	registry, err := toolx.DefaultRegistry(toolx.Deps{
		Clients:    advStore,
		Meetings:   advStore,
		Portfolios: advisoryx.ModelPortfolioBuilder{},
		News:       news,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build tool registry")
	}
	dispatcher, err := toolx.NewDispatcher(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("build tool dispatcher")
	}

	models, err := llmx.NewModelSet(ctx, *llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build model set")
	}

	opts := []orchestratorx.Option{}
	if sdkClient := openrouterx.NewClient(llmCfg.OpenRouterFor(contractx.ModelTierStandard)); sdkClient != nil {
		titler, err := llmx.NewTitler(sdkClient, llmCfg.TitleModelName())
		if err != nil {
			log.Fatal().Err(err).Msg("build titler")
		}
		opts = append(opts, orchestratorx.WithTitler(titler))
	}

	svc, err := orchestratorx.New(convStore, models, registry, dispatcher, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	runREPL(ctx, svc, contractx.Identity(appCfg.AdvisorID))
}

// runREPL is a dev harness: one advisor, one thread, stdin in, stdout out.
func runREPL(ctx context.Context, svc *orchestratorx.Service, advisor contractx.Identity) {
	fmt.Println("advisor-assistant ready (ctrl-d to exit)")

	var conversationID int64
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		resp, err := svc.Chat(ctx, advisor, contractx.ChatRequest{
			Message:        line,
			ConversationID: conversationID,
		})
		if err != nil {
			log.Error().Err(err).Msg("chat failed")
			continue
		}

		conversationID = resp.ConversationID
		fmt.Println(resp.Response)
		if resp.SideEffects.Meeting != nil {
			fmt.Println("[meeting draft ready for confirmation]")
		}
		if resp.SideEffects.Email != nil {
			fmt.Println("[email draft ready for review]")
		}
		if resp.SideEffects.Portfolio != nil {
			fmt.Println("[portfolio proposal ready]")
		}
	}
}
