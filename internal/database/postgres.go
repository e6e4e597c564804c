package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/lib/pq"
)

// rebind converts ? placeholders to $1, $2, ... for PostgreSQL.
func rebind(query string) string {
	n := 1
	out := strings.Builder{}
	for _, ch := range query {
		if ch == '?' {
			out.WriteString(fmt.Sprintf("$%d", n))
			n++
		} else {
			out.WriteRune(ch)
		}
	}
	return out.String()
}

// Database wraps the PostgreSQL connection shared by the repositories.
type Database struct {
	db *sql.DB
}

// NewPostgres opens and pings a PostgreSQL connection and creates the schema.
func NewPostgres(ctx context.Context, dsn string) (*Database, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	d := &Database{db: db}
	if err := d.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return d, nil
}

// NewFromEnv builds a DSN from POSTGRES_* variables.
func NewFromEnv(ctx context.Context) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		envOr("POSTGRES_HOST", "localhost"),
		envOr("POSTGRES_PORT", "5432"),
		envOr("POSTGRES_USER", "linkodin"),
		envOr("POSTGRES_PASSWORD", "linkodin"),
		envOr("POSTGRES_DB", "linkodin"),
	)
	return NewPostgres(ctx, dsn)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// DB returns the underlying connection.
func (d *Database) DB() *sql.DB {
	return d.db
}

func (d *Database) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS personas (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		niche TEXT NOT NULL,
		target_audience TEXT NOT NULL,
		localization TEXT NOT NULL,
		tone TEXT NOT NULL DEFAULT '',
		industry TEXT NOT NULL DEFAULT '',
		experience_level TEXT NOT NULL DEFAULT '',
		content_themes TEXT[] NOT NULL DEFAULT '{}',
		engagement_style TEXT NOT NULL DEFAULT '',
		personal_brand_keywords TEXT[] NOT NULL DEFAULT '{}',
		posting_frequency TEXT NOT NULL DEFAULT '',
		description TEXT,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		persona_id TEXT NOT NULL,
		content TEXT NOT NULL,
		image_prompt TEXT,
		image_url TEXT,
		hashtags TEXT,
		market_analysis TEXT,
		generation_prompt TEXT,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_posts_persona_id ON posts(persona_id);
	CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);
	`
	_, err := d.db.ExecContext(ctx, schema)
	return err
}

// nullString maps an empty optional field to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func arrayOrEmpty(in []string) interface{} {
	if in == nil {
		in = []string{}
	}
	return pq.Array(in)
}
