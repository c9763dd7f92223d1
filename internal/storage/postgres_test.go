package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRow struct {
	value string
	err   error
}

func (r mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.value
	return nil
}

type mockPgQuerier struct {
	rows     map[string]string
	execSQL  []string
	execArgs [][]any
	queryErr error
	execErr  error
}

func newMockPgQuerier() *mockPgQuerier {
	return &mockPgQuerier{rows: make(map[string]string)}
}

func (m *mockPgQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.execSQL = append(m.execSQL, sql)
	m.execArgs = append(m.execArgs, args)
	if m.execErr != nil {
		return pgconn.CommandTag{}, m.execErr
	}
	switch {
	case strings.Contains(sql, "INSERT INTO dashboard_storage"):
		m.rows[args[0].(string)+"|"+args[1].(string)] = args[2].(string)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.Contains(sql, "DELETE FROM dashboard_storage"):
		ns := args[0].(string)
		for _, k := range args[1].([]string) {
			delete(m.rows, ns+"|"+k)
		}
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (m *mockPgQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	if m.queryErr != nil {
		return mockRow{err: m.queryErr}
	}
	v, ok := m.rows[args[0].(string)+"|"+args[1].(string)]
	if !ok {
		return mockRow{err: pgx.ErrNoRows}
	}
	return mockRow{value: v}
}

func TestPostgresStorage_Basics(t *testing.T) {
	mock := newMockPgQuerier()
	s := &PostgresStorage{db: mock, namespace: "leadsfynder:"}

	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.Contains(t, mock.execSQL[0], "CREATE TABLE IF NOT EXISTS dashboard_storage")

	exerciseStorage(t, s)
}

func TestPostgresStorage_NamespacesAreIsolated(t *testing.T) {
	mock := newMockPgQuerier()
	a := &PostgresStorage{db: mock, namespace: "a:"}
	b := &PostgresStorage{db: mock, namespace: "b:"}
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, "token", "tok-a"))
	_, ok, err := b.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresStorage_ErrorPaths(t *testing.T) {
	mock := newMockPgQuerier()
	mock.queryErr = errors.New("query failed")
	mock.execErr = errors.New("exec failed")
	s := &PostgresStorage{db: mock, namespace: "p:"}
	ctx := context.Background()

	_, _, err := s.Get(ctx, "token")
	assert.Error(t, err)
	assert.Error(t, s.Set(ctx, "token", "x"))
	assert.Error(t, s.Delete(ctx, "token"))
}
