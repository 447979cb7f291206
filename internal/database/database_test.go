package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestPinger(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.Discard,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	pinger := Pinger{DB: db}

	mock.ExpectPing()
	assert.NoError(t, pinger.Ping(context.Background()))

	down := errors.New("connection reset")
	mock.ExpectPing().WillReturnError(down)
	assert.ErrorIs(t, pinger.Ping(context.Background()), down)

	assert.NoError(t, mock.ExpectationsWereMet())
}
