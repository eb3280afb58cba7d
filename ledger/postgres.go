package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the ledger table.
const Schema = `CREATE TABLE IF NOT EXISTS generated_documents (
	id          BIGSERIAL PRIMARY KEY,
	kind        TEXT NOT NULL,
	number      TEXT NOT NULL DEFAULT '',
	object_key  TEXT NOT NULL,
	url         TEXT NOT NULL,
	fingerprint TEXT NOT NULL,
	size_bytes  BIGINT NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertEntry = `INSERT INTO generated_documents
	(kind, number, object_key, url, fingerprint, size_bytes, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Postgres records entries in the generated_documents table.
type Postgres struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ Recorder = (*Postgres)(nil)

// Open connects to dsn and pings the server.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.New("ledger: empty database URL")
	}
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("ledger: parse config: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = 3 * time.Minute

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("ledger: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ledger: ping: %w", err)
	}
	log.Print("[ledger] postgres pool initialized")
	return &Postgres{pool: pool, now: time.Now}, nil
}

// Migrate creates the ledger table if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ledger: migrate: %w", err)
	}
	return nil
}

func (p *Postgres) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = p.now()
	}
	_, err := p.pool.Exec(ctx, insertEntry, e.Kind, e.Number, e.Key, e.URL, e.Fingerprint, e.Size, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("ledger: record %s: %w", e.Key, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	log.Println("[ledger] closing postgres pool")
	p.pool.Close()
	return nil
}
