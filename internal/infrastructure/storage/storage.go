// Package storage selects and opens the persistence backend at startup.
package storage

import (
	"context"
	"fmt"

	"github.com/codexplain/explainer-api/internal/core/ports"
	"github.com/codexplain/explainer-api/internal/infrastructure/db/mongo"
	"github.com/codexplain/explainer-api/internal/infrastructure/db/sqldb"
)

const (
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config names the backend and carries the settings for each of them; only
// the selected backend's fields are read.
type Config struct {
	Driver      string
	MongoURI    string
	MongoDB     string
	SQLitePath  string
	PostgresDSN string
}

// Stores is an opened backend.
type Stores struct {
	Driver       string
	Accounts     ports.CredentialStore
	Explanations ports.ExplanationRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (s *Stores) Ping(ctx context.Context) error  { return s.ping(ctx) }
func (s *Stores) Close(ctx context.Context) error { return s.close(ctx) }

// Open connects to the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (*Stores, error) {
	switch cfg.Driver {
	case DriverMongo, "":
		s, err := mongo.Open(ctx, mongo.Config{URI: cfg.MongoURI, Database: cfg.MongoDB})
		if err != nil {
			return nil, err
		}
		return &Stores{
			Driver:       DriverMongo,
			Accounts:     s.Accounts,
			Explanations: s.Explanations,
			ping:         s.Ping,
			close:        s.Close,
		}, nil

	case DriverSQLite:
		return openSQL(ctx, sqldb.SQLite, cfg.SQLitePath)

	case DriverPostgres:
		return openSQL(ctx, sqldb.Postgres, cfg.PostgresDSN)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func openSQL(ctx context.Context, dialect sqldb.Dialect, dsn string) (*Stores, error) {
	s, err := sqldb.Open(ctx, dialect, sqldb.Config{DSN: dsn})
	if err != nil {
		return nil, err
	}
	return &Stores{
		Driver:       dialect.Name,
		Accounts:     s.Accounts,
		Explanations: s.Explanations,
		ping:         s.Ping,
		close:        s.Close,
	}, nil
}
