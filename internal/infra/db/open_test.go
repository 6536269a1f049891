package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConnectionConfig(t *testing.T) {
	cfg := DefaultConnectionConfig()

	assert.Equal(t, 4, cfg.MaxOpenConns)
	assert.Equal(t, 2, cfg.MaxIdleConns)
	assert.Equal(t, 1*time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxIdleTime)
}

func TestOpen_EmptyDSN(t *testing.T) {
	db, err := Open(context.Background(), "", DefaultConnectionConfig(), time.Second)
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "empty DSN")
}
