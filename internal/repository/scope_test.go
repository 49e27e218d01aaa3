package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/rpattn/sparkify-etl/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scopeTx is a pgx.Tx whose statements land in a stubDB. Unused methods panic.
type scopeTx struct {
	pgx.Tx
	db         *stubDB
	committed  bool
	rolledBack bool
}

func (tx *scopeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return tx.db.Exec(ctx, sql, args...)
}

func (tx *scopeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return tx.db.Query(ctx, sql, args...)
}

func (tx *scopeTx) Commit(ctx context.Context) error {
	tx.committed = true
	return nil
}

func (tx *scopeTx) Rollback(ctx context.Context) error {
	tx.rolledBack = true
	return nil
}

type scopeConn struct {
	begun []*scopeTx
}

func (c *scopeConn) Begin(ctx context.Context) (pgx.Tx, error) {
	tx := &scopeTx{db: &stubDB{}}
	c.begun = append(c.begun, tx)
	return tx, nil
}

func TestTxScopeCommitsOnSuccess(t *testing.T) {
	conn := &scopeConn{}
	scope := NewTxScope(conn, Statements{})

	err := scope.Within(context.Background(), func(repos Repositories) error {
		return repos.Songs.Insert(context.Background(), domain.Song{SongID: "S1", Title: "T", ArtistID: "A1"})
	})

	require.NoError(t, err)
	require.Len(t, conn.begun, 1)
	tx := conn.begun[0]
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
	require.Len(t, tx.db.execs, 1)
	assert.Equal(t, DefaultStatements().SongInsert, tx.db.execs[0].sql)
}

func TestTxScopeRollsBackOnError(t *testing.T) {
	conn := &scopeConn{}
	scope := NewTxScope(conn, Statements{})
	errMalformed := errors.New("malformed event")

	err := scope.Within(context.Background(), func(repos Repositories) error {
		if err := repos.Songs.Insert(context.Background(), domain.Song{SongID: "S1"}); err != nil {
			return err
		}
		return errMalformed
	})

	assert.ErrorIs(t, err, errMalformed)
	require.Len(t, conn.begun, 1)
	assert.True(t, conn.begun[0].rolledBack)
	assert.False(t, conn.begun[0].committed)
}

func TestTxScopeBeginsOneTransactionPerCall(t *testing.T) {
	conn := &scopeConn{}
	scope := NewTxScope(conn, Statements{})
	noop := func(Repositories) error { return nil }

	require.NoError(t, scope.Within(context.Background(), noop))
	require.NoError(t, scope.Within(context.Background(), noop))

	require.Len(t, conn.begun, 2)
	assert.NotSame(t, conn.begun[0], conn.begun[1])
	assert.True(t, conn.begun[0].committed)
	assert.True(t, conn.begun[1].committed)
}
