package audit

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridrelax/gridrelax/pkg/config"
)

func TestHealthCheck_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()

	assert.NoError(t, HealthCheck(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheck_ConnectionLost(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(assert.AnError)

	err = HealthCheck(context.Background(), db)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "audit database unreachable")
}

func TestOpenDB_UnsupportedType(t *testing.T) {
	_, err := OpenDB(&config.DatabaseConfig{Type: "oracle"})
	assert.Error(t, err)
}
