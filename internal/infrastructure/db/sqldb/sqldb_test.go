package sqldb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/codexplain/explainer-api/internal/core/domain"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), SQLite, Config{DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func newAccount(username string, role domain.Role) *domain.Account {
	return &domain.Account{
		Username:     username,
		PasswordHash: "$2a$10$hash",
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestRebind(t *testing.T) {
	q := `DELETE FROM explanations WHERE id = ? AND user_id = ?`
	require.Equal(t, q, SQLite.Rebind(q))
	require.Equal(t, `DELETE FROM explanations WHERE id = $1 AND user_id = $2`, Postgres.Rebind(q))
}

func TestPostgresUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505"})
	require.True(t, Postgres.IsUniqueViolation(err))
	require.False(t, Postgres.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	require.False(t, Postgres.IsUniqueViolation(errors.New("boom")))
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), SQLite, Config{})
	require.Error(t, err)
}

func TestAccounts_InsertAndFind(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	created, err := s.Accounts.InsertUnique(ctx, newAccount("alice", domain.RoleUser))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	byName, err := s.Accounts.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, created.ID, byName.ID)
	require.Equal(t, domain.RoleUser, byName.Role)
	require.Equal(t, "$2a$10$hash", byName.PasswordHash)

	byID, err := s.Accounts.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)

	_, err = s.Accounts.FindByUsername(ctx, "ghost")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccounts_DuplicateUsername(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	_, err := s.Accounts.InsertUnique(ctx, newAccount("alice", domain.RoleUser))
	require.NoError(t, err)

	_, err = s.Accounts.InsertUnique(ctx, newAccount("alice", domain.RoleAdmin))
	require.ErrorIs(t, err, domain.ErrUsernameTaken)

	all, err := s.Accounts.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, domain.RoleUser, all[0].Role)
}

func TestAccounts_ConcurrentRegistrationOneWins(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Accounts.InsertUnique(ctx, newAccount("race", domain.RoleUser))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrUsernameTaken):
				conflicts++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, successes)
	require.Equal(t, workers-1, conflicts)
}

func TestAccounts_DeleteByID(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	a, err := s.Accounts.InsertUnique(ctx, newAccount("bob", domain.RoleUser))
	require.NoError(t, err)

	require.NoError(t, s.Accounts.DeleteByID(ctx, a.ID))
	require.ErrorIs(t, s.Accounts.DeleteByID(ctx, a.ID), domain.ErrAccountNotFound)
	_, err = s.Accounts.FindByID(ctx, a.ID)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func seed(t *testing.T, s *Store, userID string, at time.Time) *domain.Explanation {
	t.Helper()
	e, err := s.Explanations.Create(context.Background(), &domain.Explanation{
		UserID:      userID,
		Code:        "print(1)",
		Language:    "python",
		Explanation: "explained",
		CreatedAt:   at,
	})
	require.NoError(t, err)
	return e
}

func TestExplanations_ListNewestFirst(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	older := seed(t, s, "u1", base)
	seed(t, s, "u2", base.Add(time.Minute))
	newer := seed(t, s, "u1", base.Add(2*time.Minute))

	mine, err := s.Explanations.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, newer.ID, mine[0].ID)
	require.Equal(t, older.ID, mine[1].ID)
	require.True(t, mine[0].CreatedAt.Equal(base.Add(2*time.Minute)))

	all, err := s.Explanations.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "u2", all[1].UserID)

	none, err := s.Explanations.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestExplanations_DeleteOwned(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	e := seed(t, s, "u1", time.Now())

	require.ErrorIs(t, s.Explanations.DeleteOwned(ctx, e.ID, "u2"), domain.ErrExplanationNotOwned)
	require.ErrorIs(t, s.Explanations.DeleteOwned(ctx, "missing", "u1"), domain.ErrExplanationNotOwned)
	require.NoError(t, s.Explanations.DeleteOwned(ctx, e.ID, "u1"))

	left, err := s.Explanations.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, left)
}

func TestExplanations_DeleteByIDAndUser(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	e := seed(t, s, "u1", time.Now())
	seed(t, s, "u2", time.Now())
	seed(t, s, "u2", time.Now())

	require.NoError(t, s.Explanations.DeleteByID(ctx, e.ID))
	require.ErrorIs(t, s.Explanations.DeleteByID(ctx, e.ID), domain.ErrExplanationNotFound)

	n, err := s.Explanations.DeleteByUser(ctx, "u2")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestStore_Ping(t *testing.T) {
	s := openMemory(t)
	require.NoError(t, s.Ping(context.Background()))
}
