package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// newMockDB branche un sqlmock à la place de PostgreSQL pour la durée du test
func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	SetDB(sqlx.NewDb(raw, "sqlmock"))
	return mock
}
