package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestPositiveOr(t *testing.T) {
	assert.Equal(t, 25, positiveOr(0, 25))
	assert.Equal(t, 25, positiveOr(-1, 25))
	assert.Equal(t, 5, positiveOr(5, 25))
}

func TestZapWriter(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	w := zapWriter{sugar: zap.New(core).Sugar()}

	w.Printf("slow sql %dms", 300)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "slow sql 300ms", entries[0].Message)
	}
}

func TestNewGormLogger_Levels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := newGormLogger("info", 0, zap.New(core))

	// Warn 级别下 Info 输出被丢弃
	l.Info(context.Background(), "hidden")
	assert.Equal(t, 0, logs.Len())

	l.Warn(context.Background(), "shown")
	assert.Equal(t, 1, logs.Len())

	debug := newGormLogger("debug", time.Second, zap.New(core))
	assert.NotNil(t, debug.LogMode(gormlogger.Silent))
}
