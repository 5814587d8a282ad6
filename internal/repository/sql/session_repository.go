package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marktprijs/catalog/internal/model"
	"github.com/marktprijs/catalog/internal/repository"
)

// SessionRepository implements repository.SessionStore on Postgres.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository instance.
func NewSessionRepository(db *sql.DB) repository.SessionStore {
	return &SessionRepository{db: db}
}

// Insert records a freshly started session.
func (r *SessionRepository) Insert(ctx context.Context, session *model.ScrapingSession) error {
	if session.ID == uuid.Nil {
		session.InitMeta()
	}

	query := `INSERT INTO scraping_sessions (id, supermarket_id, started_at, status)
	          VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, session.ID, session.SupermarketID, session.StartedAt, session.Status)
	if err != nil {
		return fmt.Errorf("failed to insert scraping session: %w", err)
	}
	return nil
}

// Finalize sets the terminal state of a session exactly once. The update is
// guarded on status = running, so a second finalize returns
// ErrSessionFinalized. A dead storage handle gets one reconnect attempt.
func (r *SessionRepository) Finalize(ctx context.Context, id uuid.UUID, productsScraped int, status model.SessionStatus, errorMessage *string) error {
	if !status.Terminal() {
		return fmt.Errorf("session %s: status %q is not terminal", id, status)
	}

	query := `UPDATE scraping_sessions
	          SET completed_at = NOW(), products_scraped = $1, status = $2, error_message = $3
	          WHERE id = $4 AND status = $5`

	var affected int64
	err := withReconnect(ctx, r.db, "finalize session", func() error {
		result, err := r.db.ExecContext(ctx, query, productsScraped, status, errorMessage, id, model.SessionRunning)
		if err != nil {
			return fmt.Errorf("failed to finalize session %s: %w", id, err)
		}
		affected, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	// A zero-row update means the running guard did not match; the session
	// was already terminal. Not a storage failure, so no retry above.
	if affected == 0 {
		return fmt.Errorf("session %s: %w", id, repository.ErrSessionFinalized)
	}
	return nil
}

// LastCompleted returns the newest completed_at among completed sessions,
// optionally filtered by supermarket code. Nil means no session for the
// source has ever completed.
func (r *SessionRepository) LastCompleted(ctx context.Context, supermarketCode string) (*time.Time, error) {
	var (
		completedAt sql.NullTime
		err         error
	)

	if supermarketCode != "" {
		query := `SELECT MAX(s.completed_at) FROM scraping_sessions s
		          JOIN supermarkets m ON m.id = s.supermarket_id
		          WHERE s.status = $1 AND LOWER(m.code) = LOWER($2)`
		err = r.db.QueryRowContext(ctx, query, model.SessionCompleted, supermarketCode).Scan(&completedAt)
	} else {
		query := `SELECT MAX(completed_at) FROM scraping_sessions WHERE status = $1`
		err = r.db.QueryRowContext(ctx, query, model.SessionCompleted).Scan(&completedAt)
	}

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query last completed session: %w", err)
	}
	if !completedAt.Valid {
		return nil, nil
	}
	return &completedAt.Time, nil
}
