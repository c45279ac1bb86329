package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

const titleSystemPrompt = "Generate a very short title (max 6 words, no quotes, " +
	"same language as the message) for a conversation opening with the given message."

// OpenAITitler produces conversation titles through a single cheap
// completion on the raw SDK client, outside the planning loop.
type OpenAITitler struct {
	client *openaisdk.Client
	model  string
}

var _ contractx.Titler = (*OpenAITitler)(nil)

func NewTitler(client *openaisdk.Client, model string) (*OpenAITitler, error) {
	if client == nil {
		return nil, errors.New("openai client is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("title model is required")
	}
	return &OpenAITitler{client: client, model: strings.TrimSpace(model)}, nil
}

func (t *OpenAITitler) Title(ctx context.Context, message string) (string, error) {
	resp, err := t.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(t.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(titleSystemPrompt),
			openaisdk.UserMessage(message),
		},
		MaxTokens:   openaisdk.Int(24),
		Temperature: openaisdk.Float(0.2),
	})
	if err != nil {
		return "", fmt.Errorf("%w: title completion: %v", contractx.ErrModelInvoke, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: title completion returned no choices", contractx.ErrModelInvoke)
	}

	title := strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), `"`)
	if title == "" {
		return "", fmt.Errorf("%w: title completion returned empty content", contractx.ErrModelInvoke)
	}
	return title, nil
}

// FallbackTitle truncates the opening message when the titler is
// unavailable or fails.
func FallbackTitle(message string) string {
	title := strings.Join(strings.Fields(message), " ")
	const maxLen = 48
	if runes := []rune(title); len(runes) > maxLen {
		title = strings.TrimSpace(string(runes[:maxLen])) + "…"
	}
	if title == "" {
		title = "Nuova conversazione"
	}
	return title
}
