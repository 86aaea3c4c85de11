package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/skz_roster/pkg/logging"
)

const slowQuery = 200 * time.Millisecond

// gormLogger sends gorm's output to the slog logger found in the query
// context, so SQL lines carry the request id of the request that ran them.
type gormLogger struct {
	level logger.LogLevel
	slow  time.Duration
}

func newGormLogger() logger.Interface {
	return &gormLogger{level: logger.Warn, slow: slowQuery}
}

func (g *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	c := *g
	c.level = level
	return &c
}

func (g *gormLogger) Info(ctx context.Context, msg string, args ...any) {
	if g.level >= logger.Info {
		logging.FromContext(ctx).Info(fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if g.level >= logger.Warn {
		logging.FromContext(ctx).Warn(fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, args ...any) {
	if g.level >= logger.Error {
		logging.FromContext(ctx).Error(fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

// Trace skips record-not-found; callers turn it into a 404.
func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	l := logging.FromContext(ctx)

	switch {
	case err != nil && g.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.Error("db_query_failed", "component", "gorm", "sql", sql, "rows", rows, "duration_ms", elapsed.Milliseconds(), "error", err)
	case g.slow > 0 && elapsed > g.slow && g.level >= logger.Warn:
		sql, rows := fc()
		l.Warn("db_slow_query", "component", "gorm", "sql", sql, "rows", rows, "duration_ms", elapsed.Milliseconds())
	case g.level >= logger.Info:
		sql, rows := fc()
		l.Debug("db_query", "component", "gorm", "sql", sql, "rows", rows, "duration_ms", elapsed.Milliseconds())
	}
}
