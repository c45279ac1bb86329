package contract

import (
	"context"
	"time"
)

// ClientDirectory resolves advisor client records. Search is scoped to the
// calling advisor at the query level; Get is unscoped and callers must run
// the ownership guard on the returned record.
type ClientDirectory interface {
	SearchClients(ctx context.Context, advisor Identity, query string) ([]ClientRecord, error)
	GetClient(ctx context.Context, id int64) (*ClientRecord, error)
}

type MeetingBook interface {
	MeetingsInRange(ctx context.Context, advisor Identity, from, to time.Time) ([]Meeting, error)
}

type PortfolioBuilder interface {
	Build(ctx context.Context, advisor Identity, riskProfile string, amount float64) (*Portfolio, error)
}

type NewsProvider interface {
	Latest(ctx context.Context, topic string, limit int) ([]NewsItem, error)
}

// Titler produces a short conversation title from the opening message.
type Titler interface {
	Title(ctx context.Context, message string) (string, error)
}
