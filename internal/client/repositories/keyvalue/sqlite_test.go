package keyvalue

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE kv (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`)
	require.NoError(t, err)
	return db
}

func TestSQLite_SetThenGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "currentUser", []byte(`{"id":1}`)))

	v, err := r.Get(ctx, "currentUser")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":1}`), v)
}

func TestSQLite_GetMissingReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "currentAccount")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLite_SetOverwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "currentAccount", []byte(`{"balance":100}`)))
	require.NoError(t, r.Set(ctx, "currentAccount", []byte(`{"balance":150}`)))

	v, err := r.Get(ctx, "currentAccount")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"balance":150}`), v)
}

func TestSQLite_DeleteIsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "userId", []byte("42")))
	require.NoError(t, r.Delete(ctx, "userId"))

	v, err := r.Get(ctx, "userId")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Delete(ctx, "userId"))
}

func TestSQLite_ListAndClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{0xAA}))
	require.NoError(t, r.Set(ctx, "b", []byte{0xBB, 0xCC}))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a": {0xAA}, "b": {0xBB, 0xCC}}, m)

	require.NoError(t, r.Clear(ctx))
	m, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestSQLite_ClosedDBErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	assert.ErrorContains(t, err, "failed to get kv[k]")
	assert.ErrorContains(t, r.Set(ctx, "k", []byte("v")), "failed to set kv[k]")
	assert.ErrorContains(t, r.Delete(ctx, "k"), "failed to delete kv[k]")
	assert.ErrorContains(t, r.Clear(ctx), "failed to clear kv")
	_, err = r.List(ctx)
	assert.ErrorContains(t, err, "failed to list kv")
}

func TestSQLite_DriverErrorUnwraps(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("database is locked")
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv`)).
		WithArgs("currentAccount", []byte("{}")).
		WillReturnError(boom)

	err = NewSQLiteRepository(db).Set(context.Background(), "currentAccount", []byte("{}"))
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLite_ListScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("a", []byte("1")).
		RowError(0, errors.New("corrupt page"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key, value FROM kv`)).WillReturnRows(rows)

	_, err = NewSQLiteRepository(db).List(context.Background())
	require.ErrorContains(t, err, "corrupt page")
}
