// Package advisory provides the backend reference data consumed by the
// assistant's tools: client records, meetings, portfolio models, news.
package advisory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

type clientRow struct {
	bun.BaseModel `bun:"table:clients,alias:cl"`

	ID        int64              `bun:"id,pk,autoincrement"`
	AdvisorID contractx.Identity `bun:"advisor_id,notnull"`
	FirstName string             `bun:"first_name,notnull"`
	LastName  string             `bun:"last_name,notnull"`
	Email     string             `bun:"email,notnull"`
	Phone     string             `bun:"phone,nullzero"`
	Segment   string             `bun:"segment,nullzero"`
}

type meetingRow struct {
	bun.BaseModel `bun:"table:meetings,alias:mt"`

	ID        int64              `bun:"id,pk,autoincrement"`
	AdvisorID contractx.Identity `bun:"advisor_id,notnull"`
	ClientID  int64              `bun:"client_id,notnull"`
	Title     string             `bun:"title,notnull"`
	StartsAt  time.Time          `bun:"starts_at,notnull"`
	EndsAt    time.Time          `bun:"ends_at,notnull"`
	Location  string             `bun:"location,nullzero"`
}

// Store reads advisory reference data from Postgres. Implements
// contract.ClientDirectory and contract.MeetingBook.
type Store struct {
	db *bun.DB
}

var (
	_ contractx.ClientDirectory = (*Store)(nil)
	_ contractx.MeetingBook     = (*Store)(nil)
)

func NewStore(db *bun.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	return &Store{db: db}, nil
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*clientRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create clients table: %w", err)
	}
	if _, err := s.db.NewCreateTable().
		Model((*meetingRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create meetings table: %w", err)
	}
	return nil
}

// SearchClients matches the query against first name, last name, and email,
// scoped to the calling advisor.
func (s *Store) SearchClients(ctx context.Context, advisor contractx.Identity, query string) ([]contractx.ClientRecord, error) {
	q := s.db.NewSelect().
		Model((*clientRow)(nil)).
		Where("cl.advisor_id = ?", advisor).
		OrderExpr("cl.last_name ASC, cl.first_name ASC").
		Limit(20)

	if term := strings.TrimSpace(query); term != "" {
		pattern := "%" + term + "%"
		q = q.Where("(cl.first_name ILIKE ? OR cl.last_name ILIKE ? OR cl.email ILIKE ?)",
			pattern, pattern, pattern)
	}

	var rows []clientRow
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}

	out := make([]contractx.ClientRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, clientRecord(row))
	}
	return out, nil
}

func (s *Store) GetClient(ctx context.Context, id int64) (*contractx.ClientRecord, error) {
	row := new(clientRow)
	err := s.db.NewSelect().Model(row).Where("cl.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: client %d", contractx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("select client: %w", err)
	}
	rec := clientRecord(*row)
	return &rec, nil
}

func (s *Store) MeetingsInRange(ctx context.Context, advisor contractx.Identity, from, to time.Time) ([]contractx.Meeting, error) {
	var rows []meetingRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("mt.advisor_id = ?", advisor).
		Where("mt.starts_at >= ?", from.UTC()).
		Where("mt.starts_at < ?", to.UTC()).
		OrderExpr("mt.starts_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select meetings: %w", err)
	}

	out := make([]contractx.Meeting, 0, len(rows))
	for _, row := range rows {
		out = append(out, contractx.Meeting{
			ID:        row.ID,
			AdvisorID: row.AdvisorID,
			ClientID:  row.ClientID,
			Title:     row.Title,
			StartsAt:  row.StartsAt,
			EndsAt:    row.EndsAt,
			Location:  row.Location,
		})
	}
	return out, nil
}

func clientRecord(row clientRow) contractx.ClientRecord {
	return contractx.ClientRecord{
		ID:        row.ID,
		AdvisorID: row.AdvisorID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Email:     row.Email,
		Phone:     row.Phone,
		Segment:   row.Segment,
	}
}
