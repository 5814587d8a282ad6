package sql

import (
	"context"
	"database/sql"
	"log/slog"
)

// withReconnect runs op and, when it fails, pings the handle and retries op
// exactly once. A stale pooled connection survives the ping; anything else is
// returned to the caller after the single retry.
func withReconnect(ctx context.Context, db *sql.DB, name string, op func() error) error {
	err := op()
	if err == nil {
		return nil
	}

	slog.Warn("storage operation failed, attempting reconnect", slog.String("op", name), slog.Any("err", err))
	if pingErr := db.PingContext(ctx); pingErr != nil {
		slog.Error("reconnect failed", slog.String("op", name), slog.Any("err", pingErr))
		return err
	}
	return op()
}
