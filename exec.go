package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// statementExecutor runs one parameterized statement on the target.
// *pgx.Conn satisfies it.
type statementExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// dryRunExecutor logs statements instead of executing them.
type dryRunExecutor struct {
	logger *zap.Logger
}

func (d dryRunExecutor) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	if err := ctx.Err(); err != nil {
		return pgconn.CommandTag{}, err
	}
	d.logger.Debug("dry run", zap.String("sql", sql), zap.Int("args", len(arguments)))
	return pgconn.CommandTag{}, nil
}

// execSQL runs a single statement and wraps failures with the statement text.
func execSQL(ctx context.Context, exec statementExecutor, desc, query string) error {
	if _, err := exec.Exec(ctx, query); err != nil {
		if isInterrupt(ctx, err) {
			return interrupted(err)
		}
		return fmt.Errorf("%s: %w\nSQL: %s", desc, err, query)
	}
	return nil
}
