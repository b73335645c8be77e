// Package sqldb implements the credential and explanation stores over
// database/sql. SQLite (mattn/go-sqlite3) and PostgreSQL (pgx stdlib) share
// one implementation; a Dialect captures where they differ.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/mattn/go-sqlite3"
)

const defaultTimeout = 10 * time.Second

// Dialect describes one SQL backend.
type Dialect struct {
	Name          string
	DriverName    string
	TimestampType string
	// Numbered reports whether placeholders are $1, $2... instead of ?.
	Numbered bool
	// IsUniqueViolation reports whether err is a UNIQUE constraint failure.
	IsUniqueViolation func(err error) bool
}

var SQLite = Dialect{
	Name:          "sqlite",
	DriverName:    "sqlite3",
	TimestampType: "TIMESTAMP",
	IsUniqueViolation: func(err error) bool {
		var se sqlite3.Error
		return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
	},
}

var Postgres = Dialect{
	Name:          "postgres",
	DriverName:    "pgx",
	TimestampType: "TIMESTAMPTZ",
	Numbered:      true,
	IsUniqueViolation: func(err error) bool {
		var pe *pgconn.PgError
		return errors.As(err, &pe) && pe.Code == "23505"
	},
}

// Rebind rewrites ? placeholders for dialects that number them.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL,
			created_at    ` + d.TimestampType + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS explanations (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			code        TEXT NOT NULL,
			language    TEXT NOT NULL DEFAULT '',
			explanation TEXT NOT NULL,
			created_at  ` + d.TimestampType + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_explanations_user_created ON explanations (user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_explanations_created ON explanations (created_at DESC)`,
	}
}

// Config captures the settings for opening a SQL store.
type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// Store bundles both repositories over one *sql.DB.
type Store struct {
	db           *sql.DB
	dialect      Dialect
	Accounts     *AccountRepository
	Explanations *ExplanationRepository
}

// Open connects with dialect, verifies the connection and creates the
// schema when missing.
func Open(ctx context.Context, dialect Dialect, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%s: connection source is empty", dialect.Name)
	}

	db, err := sql.Open(dialect.DriverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", dialect.Name, err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 && dialect.Name == SQLite.Name {
		// a single connection keeps :memory: databases and writes consistent
		maxOpen = 1
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	initCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(initCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", dialect.Name, err)
	}
	for _, stmt := range dialect.schema() {
		if _, err := db.ExecContext(initCtx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: create schema: %w", dialect.Name, err)
		}
	}

	return &Store{
		db:           db,
		dialect:      dialect,
		Accounts:     &AccountRepository{db: db, dialect: dialect},
		Explanations: &ExplanationRepository{db: db, dialect: dialect},
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}
