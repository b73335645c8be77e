package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/codexplain/explainer-api/internal/core/domain"
)

// AccountRepository is the SQL implementation of ports.CredentialStore.
type AccountRepository struct {
	db      *sql.DB
	dialect Dialect
}

const accountColumns = `id, username, password_hash, role, created_at`

func scanAccount(row interface{ Scan(...any) error }) (*domain.Account, error) {
	var (
		a    domain.Account
		role string
	)
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &role, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Role = domain.Role(role)
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}

// InsertUnique relies on the UNIQUE username constraint, so two concurrent
// registrations of the same name cannot both succeed.
func (r *AccountRepository) InsertUnique(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stored := *a
	stored.ID = uuid.NewString()
	stored.CreatedAt = a.CreatedAt.UTC()

	_, err := r.db.ExecContext(ctx,
		r.dialect.Rebind(`INSERT INTO users (`+accountColumns+`) VALUES (?, ?, ?, ?, ?)`),
		stored.ID, stored.Username, stored.PasswordHash, string(stored.Role), stored.CreatedAt,
	)
	if err != nil {
		if r.dialect.IsUniqueViolation(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &stored, nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, `username = ?`, username)
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOne(ctx, `id = ?`, id)
}

func (r *AccountRepository) findOne(ctx context.Context, where string, arg any) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT `+accountColumns+` FROM users WHERE `+where), arg)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// List returns every account ordered by creation time.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM users ORDER BY created_at ASC, username ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
