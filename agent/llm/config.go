package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
	openrouterx "github.com/fairmontlabs/advisor-assistant/pkg/openrouter"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.3"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	// Advanced tier falls back to the standard model when unset.
	AdvancedModel       string  `envconfig:"ADVANCED_MODEL" split_words:"true"`
	AdvancedTemperature float32 `envconfig:"ADVANCED_TEMPERATURE" split_words:"true" default:"-1"`

	// Model for the cheap title completion; defaults to the standard model.
	TitleModel string `envconfig:"TITLE_MODEL" split_words:"true"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: standard model is required", contractx.ErrValidation)
	}
	return nil
}

func (c Config) ModelName(tier contractx.ModelTier) string {
	if tier == contractx.ModelTierAdvanced {
		if v := strings.TrimSpace(c.AdvancedModel); v != "" {
			return v
		}
	}
	return strings.TrimSpace(c.Model)
}

func (c Config) TitleModelName() string {
	if v := strings.TrimSpace(c.TitleModel); v != "" {
		return v
	}
	return strings.TrimSpace(c.Model)
}

func (c Config) OpenRouterFor(tier contractx.ModelTier) openrouterx.Config {
	temp := c.Temperature
	if tier == contractx.ModelTierAdvanced && c.AdvancedTemperature >= 0 {
		temp = c.AdvancedTemperature
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              c.ModelName(tier),
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
