package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/codexplain/explainer-api/internal/core/domain"
)

// ExplanationRepository is the SQL implementation of
// ports.ExplanationRepository.
type ExplanationRepository struct {
	db      *sql.DB
	dialect Dialect
}

const explanationColumns = `id, user_id, code, language, explanation, created_at`

func (r *ExplanationRepository) Create(ctx context.Context, e *domain.Explanation) (*domain.Explanation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stored := *e
	stored.ID = uuid.NewString()
	stored.CreatedAt = e.CreatedAt.UTC()

	_, err := r.db.ExecContext(ctx,
		r.dialect.Rebind(`INSERT INTO explanations (`+explanationColumns+`) VALUES (?, ?, ?, ?, ?, ?)`),
		stored.ID, stored.UserID, stored.Code, stored.Language, stored.Explanation, stored.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert explanation: %w", err)
	}
	return &stored, nil
}

func (r *ExplanationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Explanation, error) {
	return r.list(ctx, `WHERE user_id = ?`, userID)
}

func (r *ExplanationRepository) ListAll(ctx context.Context) ([]*domain.Explanation, error) {
	return r.list(ctx, ``)
}

func (r *ExplanationRepository) list(ctx context.Context, where string, args ...any) ([]*domain.Explanation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + explanationColumns + ` FROM explanations ` + where + ` ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list explanations: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Explanation, 0)
	for rows.Next() {
		var e domain.Explanation
		if err := rows.Scan(&e.ID, &e.UserID, &e.Code, &e.Language, &e.Explanation, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan explanation: %w", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, &e)
	}
	return out, rows.Err()
}

// DeleteOwned deletes the explanation only when both id and owner match.
func (r *ExplanationRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	n, err := r.exec(ctx, `DELETE FROM explanations WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrExplanationNotOwned
	}
	return nil
}

func (r *ExplanationRepository) DeleteByID(ctx context.Context, id string) error {
	n, err := r.exec(ctx, `DELETE FROM explanations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrExplanationNotFound
	}
	return nil
}

func (r *ExplanationRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM explanations WHERE user_id = ?`, userID)
}

func (r *ExplanationRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("delete explanation: %w", err)
	}
	return res.RowsAffected()
}
