package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/miniurl/internal/analytics"
)

const (
	eventCreated = "created"
	eventVisited = "visited"
	eventRemoved = "removed"
)

const schema = `
	CREATE TABLE IF NOT EXISTS alias_events (
		id          BIGSERIAL PRIMARY KEY,
		event_type  TEXT        NOT NULL,
		code        TEXT        NOT NULL,
		owner       TEXT,
		url         TEXT,
		expires_at  TIMESTAMPTZ,
		max_visits  INTEGER,
		visit       INTEGER,
		reason      TEXT,
		client_ip   TEXT,
		user_agent  TEXT,
		referrer    TEXT,
		occurred_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS alias_events_code_idx ON alias_events (code);
`

// Record is one persisted analytics row.
type Record struct {
	EventType  string    `db:"event_type"`
	Code       string    `db:"code"`
	Visit      *int      `db:"visit"`
	Reason     *string   `db:"reason"`
	OccurredAt time.Time `db:"occurred_at"`
}

// Postgres persists analytics events to PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ analytics.Store = (*Postgres)(nil)

// NewPostgres creates a PostgreSQL-backed analytics store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the events table when it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create alias_events: %w", err)
	}

	return nil
}

func (p *Postgres) SaveAliasCreated(ctx context.Context, event *analytics.AliasCreatedEvent) error {
	query := `
		INSERT INTO alias_events
			(event_type, code, owner, url, expires_at, max_visits, client_ip, user_agent, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := p.pool.Exec(ctx, query,
		eventCreated,
		event.Code,
		event.Owner,
		event.URL,
		event.ExpiresAt,
		event.MaxVisits,
		nullable(event.ClientIP),
		nullable(event.UserAgent),
		event.CreatedAt,
	)

	return err
}

func (p *Postgres) SaveAliasVisited(ctx context.Context, event *analytics.AliasVisitedEvent) error {
	query := `
		INSERT INTO alias_events
			(event_type, code, visit, client_ip, user_agent, referrer, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.pool.Exec(ctx, query,
		eventVisited,
		event.Code,
		event.Visit,
		nullable(event.ClientIP),
		nullable(event.UserAgent),
		nullable(event.Referrer),
		event.VisitedAt,
	)

	return err
}

func (p *Postgres) SaveAliasRemoved(ctx context.Context, event *analytics.AliasRemovedEvent) error {
	query := `
		INSERT INTO alias_events (event_type, code, reason, occurred_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := p.pool.Exec(ctx, query,
		eventRemoved,
		event.Code,
		string(event.Reason),
		event.RemovedAt,
	)

	return err
}

// History returns the events recorded for code, oldest first.
func (p *Postgres) History(ctx context.Context, code string) ([]Record, error) {
	query := `
		SELECT event_type, code, visit, reason, occurred_at
		FROM alias_events
		WHERE code = $1
		ORDER BY id
	`

	rows, err := p.pool.Query(ctx, query, code)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[Record])
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
