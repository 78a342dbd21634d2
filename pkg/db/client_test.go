package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/darkstore-backend/pkg/config"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testModel struct {
	ID   int
	Name string `gorm:"uniqueIndex"`
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	client, err := New(context.Background(), config.DBConfig{Driver: config.DBDriverSQLite, DSN: dsn}, nil)
	require.NoError(t, err)
	require.NoError(t, client.DB().AutoMigrate(&testModel{}))
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{Driver: config.DBDriverSQLite}, nil)
	require.Error(t, err)
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}))

	var count int64
	require.NoError(t, client.DB().Model(&testModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	require.NoError(t, client.DB().Model(&testModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "rollback should leave one record")
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	client := newTestClient(t)

	assert.Panics(t, func() {
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Create(&testModel{Name: "doomed"}).Error; err != nil {
				return err
			}
			panic("kaboom")
		})
	})

	var count int64
	require.NoError(t, client.DB().Model(&testModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPing(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.Ping(context.Background()))
}

func TestIsUniqueViolation(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.DB().Create(&testModel{Name: "dup"}).Error)
	err := client.DB().Create(&testModel{Name: "dup"}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err, ""))

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", pgErr), "users_email_key"))
	assert.False(t, IsUniqueViolation(pgErr, "other_key"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(nil, ""))
}

func TestQueryLoggerReportsSlowAndFailedStatements(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "db-test", Level: zerolog.DebugLevel, Output: &buf})
	ql := newQueryLogger(logg, 50*time.Millisecond)
	stmt := func() (string, int64) { return "SELECT 1", 1 }

	ql.Trace(context.Background(), time.Now(), stmt, nil)
	ql.Trace(context.Background(), time.Now(), stmt, gorm.ErrRecordNotFound)
	assert.Zero(t, buf.Len(), "fast queries and missing rows stay quiet")

	ql.Trace(context.Background(), time.Now().Add(-time.Second), stmt, nil)
	assert.Contains(t, buf.String(), "slow query")
	assert.Contains(t, buf.String(), `"sql":"SELECT 1"`)

	buf.Reset()
	ql.Trace(context.Background(), time.Now(), stmt, errors.New("syntax error"))
	assert.Contains(t, buf.String(), "query failed: syntax error")
}
