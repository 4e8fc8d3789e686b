package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	retryAttempts  = 3
	retryBaseDelay = 100 * time.Millisecond
)

// isConflict reports SQLite lock contention (SQLITE_BUSY or "database is
// locked"), the only errors worth retrying.
func isConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// withRetry runs fn, retrying lock conflicts with exponential backoff
// (100ms, 200ms).
func withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for i := 0; i < retryAttempts; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !isConflict(err) || i == retryAttempts-1 {
			break
		}
		delay := retryBaseDelay * time.Duration(1<<i)
		slog.Debug("store operation hit lock conflict, retrying",
			"op", op,
			"attempt", i+1,
			"delay", delay)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(delay):
		}
	}
	if isConflict(err) {
		return fmt.Errorf("%s after %d attempts: %w", op, retryAttempts, err)
	}
	return err
}
