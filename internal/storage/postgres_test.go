package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresStore(db), mock
}

func TestPostgresStore_GetAbsentReturnsNil(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM portal_kv WHERE key = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	v, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, v)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetReturnsValue(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM portal_kv WHERE key = $1`)).
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[]`)))

	v, err := s.Get(context.Background(), "users")
	require.NoError(t, err)
	require.Equal(t, []byte(`[]`), v)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetUpserts(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO portal_kv (key, value) VALUES ($1, $2)`)).
		WithArgs("users", []byte(`[]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Set(context.Background(), "users", []byte(`[]`)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_WrapsDriverErrors(t *testing.T) {
	s, mock := setupMock(t)
	driverErr := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM portal_kv WHERE key = $1`)).
		WithArgs("users").
		WillReturnError(driverErr)

	_, err := s.Get(context.Background(), "users")
	require.ErrorIs(t, err, driverErr)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM portal_kv WHERE key = $1`)).
		WithArgs("users").
		WillReturnError(driverErr)

	require.ErrorIs(t, s.Delete(context.Background(), "users"), driverErr)
	require.NoError(t, mock.ExpectationsWereMet())
}
