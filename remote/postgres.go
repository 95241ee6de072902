package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/etnz/budget"
)

// PostgresConfig configures the Postgres connection pool.
type PostgresConfig struct {
	DSN              string
	MaxConns         int32
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

const schema = `CREATE TABLE IF NOT EXISTS budget_documents (
	user_id    TEXT PRIMARY KEY,
	doc        JSONB NOT NULL DEFAULT '{}'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres is a RemoteStore keeping one JSONB document per user. Merge-writes use the JSONB
// concatenation operator, so fields absent from a write are left untouched.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the database and creates the documents table if needed.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "budget"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprint(cfg.StatementTimeout.Milliseconds())
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the pool.
func (p *Postgres) Close() { p.pool.Close() }

// Ping checks the connection.
func (p *Postgres) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p *Postgres) Get(ctx context.Context, user string) (*budget.Document, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx, `SELECT doc FROM budget_documents WHERE user_id = $1`, user).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, budget.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres get %q: %w", user, err)
	}
	return budget.DecodeDocument(raw)
}

func (p *Postgres) MergeWrite(ctx context.Context, user string, doc *budget.Document, fields []string) error {
	patch, err := patchOf(doc, fields)
	if err != nil {
		return err
	}
	return p.Patch(ctx, user, patch)
}

// Patch replaces the fields present in patch, creating the document if needed.
func (p *Postgres) Patch(ctx context.Context, user string, patch Patch) error {
	b, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `INSERT INTO budget_documents (user_id, doc) VALUES ($1, $2::jsonb)
		ON CONFLICT (user_id) DO UPDATE SET doc = budget_documents.doc || EXCLUDED.doc, updated_at = now()`,
		user, string(b))
	if err != nil {
		return fmt.Errorf("postgres patch %q: %w", user, err)
	}
	return nil
}
