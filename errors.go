package main

import (
	"context"
	"errors"
	"fmt"
)

// errInterrupted marks an operator cancellation. It is never counted as a
// row failure and always aborts the run.
var errInterrupted = errors.New("migration interrupted")

// rowError is a recoverable failure of a single source row.
type rowError struct {
	Table string
	Row   int64
	Err   error
}

func (e *rowError) Error() string {
	return fmt.Sprintf("table %s row %d: %v", e.Table, e.Row, e.Err)
}

func (e *rowError) Unwrap() error { return e.Err }

// isInterrupt reports whether err (or the state of ctx) means the run was cancelled.
func isInterrupt(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, errInterrupted)
}

// interrupted tags err as an operator cancellation.
func interrupted(err error) error {
	if err == nil || errors.Is(err, errInterrupted) {
		return err
	}
	return fmt.Errorf("%w: %w", errInterrupted, err)
}
