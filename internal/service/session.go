package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/marktprijs/catalog/internal/metrics"
	"github.com/marktprijs/catalog/internal/model"
	"github.com/marktprijs/catalog/internal/repository"
)

// SessionTracker records the lifecycle of scraping runs. Collaborators use
// LastCompleted to decide which items still need a re-fetch.
type SessionTracker struct {
	sessions     repository.SessionStore
	supermarkets repository.SupermarketStore
}

// NewSessionTracker creates a tracker over the given stores.
func NewSessionTracker(sessions repository.SessionStore, supermarkets repository.SupermarketStore) *SessionTracker {
	return &SessionTracker{sessions: sessions, supermarkets: supermarkets}
}

// Start creates a running session for the supermarket and returns its id.
// Unknown supermarket codes fail loudly; callers must register the source
// first via SupermarketStore.Ensure.
func (t *SessionTracker) Start(ctx context.Context, supermarketCode string) (uuid.UUID, error) {
	supermarketID, err := t.supermarkets.FindIDByCode(ctx, supermarketCode)
	if err != nil {
		return uuid.Nil, err
	}

	session := &model.ScrapingSession{
		SupermarketID:   supermarketID,
		SupermarketCode: supermarketCode,
	}
	session.InitMeta()

	if err := t.sessions.Insert(ctx, session); err != nil {
		return uuid.Nil, err
	}

	slog.Info("started scraping session",
		slog.String("session_id", session.ID.String()),
		slog.String("supermarket", supermarketCode))
	return session.ID, nil
}

// End finalizes a session exactly once with its terminal status, scraped
// count and optional error message.
func (t *SessionTracker) End(ctx context.Context, id uuid.UUID, productsScraped int, status model.SessionStatus, errorMessage *string) error {
	if err := t.sessions.Finalize(ctx, id, productsScraped, status, errorMessage); err != nil {
		slog.Error("failed to end scraping session", slog.String("session_id", id.String()), slog.Any("err", err))
		return err
	}

	metrics.ScrapingSessions.WithLabelValues(string(status)).Inc()
	slog.Info("ended scraping session",
		slog.String("session_id", id.String()),
		slog.Int("products_scraped", productsScraped),
		slog.String("status", string(status)))
	return nil
}

// LastCompleted returns the newest completed_at over completed sessions,
// optionally filtered by supermarket code (empty code means any source). Nil
// means no session has ever completed.
func (t *SessionTracker) LastCompleted(ctx context.Context, supermarketCode string) (*time.Time, error) {
	return t.sessions.LastCompleted(ctx, supermarketCode)
}
