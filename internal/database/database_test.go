package database

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, DriverName: "postgres"}), &gorm.Config{
		Logger: logger.New(log.New(io.Discard, "", log.LstdFlags), logger.Config{LogLevel: logger.Silent}),
	})
	require.NoError(t, err)
	return db, mock
}

func TestSetPostingWindow(t *testing.T) {
	db, mock := setupMockDB(t)
	closes := time.Date(2026, 2, 14, 15, 59, 59, 0, time.UTC)

	mock.ExpectExec(`ALTER TABLE confessions DROP CONSTRAINT IF EXISTS chk_confessions_posting_window`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`ALTER TABLE confessions ADD CONSTRAINT chk_confessions_posting_window CHECK \(created_at < '2026-02-14T15:59:59Z'::timestamptz\) NOT VALID`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, SetPostingWindow(db, &closes))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPostingWindow_Open(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectExec(`ALTER TABLE confessions DROP CONSTRAINT IF EXISTS`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, SetPostingWindow(db, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
