package advisory

import (
	"context"
	"errors"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
	newsfeedx "github.com/fairmontlabs/advisor-assistant/pkg/newsfeed"
)

// NewsGateway adapts the newsfeed REST client to the NewsProvider boundary.
type NewsGateway struct {
	client *newsfeedx.Client
}

var _ contractx.NewsProvider = (*NewsGateway)(nil)

func NewNewsGateway(client *newsfeedx.Client) (*NewsGateway, error) {
	if client == nil {
		return nil, errors.New("newsfeed client is required")
	}
	return &NewsGateway{client: client}, nil
}

// UnconfiguredNews stands in when no news service is wired. Every call
// fails, which the dispatcher folds into a failed tool outcome the model
// can talk around.
type UnconfiguredNews struct{}

var _ contractx.NewsProvider = UnconfiguredNews{}

func (UnconfiguredNews) Latest(context.Context, string, int) ([]contractx.NewsItem, error) {
	return nil, errors.New("news service is not configured")
}

func (g *NewsGateway) Latest(ctx context.Context, topic string, limit int) ([]contractx.NewsItem, error) {
	items, err := g.client.Latest(ctx, topic, limit)
	if err != nil {
		return nil, err
	}

	out := make([]contractx.NewsItem, 0, len(items))
	for _, item := range items {
		out = append(out, contractx.NewsItem{
			Title:       item.Title,
			Source:      item.Source,
			URL:         item.URL,
			PublishedAt: item.PublishedAt,
		})
	}
	return out, nil
}
