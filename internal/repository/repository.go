package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/marktprijs/catalog/internal/model"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrSessionFinalized is returned when a session is ended more than once.
	ErrSessionFinalized = errors.New("session already finalized")
)

// CategoryKey identifies a category before its row id is known.
type CategoryKey struct {
	Name            string
	SupermarketCode string
}

// SupermarketStore resolves and registers product sources.
type SupermarketStore interface {
	// FindIDByCode looks up a supermarket id by code, case-insensitively.
	FindIDByCode(ctx context.Context, code string) (int64, error)
	// Ensure creates the supermarket if missing and returns its id. Empty
	// name or base URL fall back to built-in defaults for known chains.
	Ensure(ctx context.Context, code, name, baseURL string) (int64, error)
}

// CategoryStore performs get-or-create resolution of category rows.
type CategoryStore interface {
	Resolve(ctx context.Context, name, supermarketCode string) (int64, error)
	// ResolveBatch resolves every distinct (name, supermarket) pair in keys
	// with bulk lookups and a single multi-row insert for the misses.
	ResolveBatch(ctx context.Context, keys []CategoryKey) (map[CategoryKey]int64, error)
}

// ProductStore persists canonical products.
type ProductStore interface {
	// SaveChunk upserts one chunk in a single transaction, appending one
	// price-history row per upserted product, and returns the saved count.
	SaveChunk(ctx context.Context, products []*model.Product, categoryIDs map[CategoryKey]int64, supermarketIDs map[string]int64) (int, error)
}

// SessionStore records scraping session lifecycles.
type SessionStore interface {
	Insert(ctx context.Context, session *model.ScrapingSession) error
	// Finalize sets the terminal state exactly once; a second call returns
	// ErrSessionFinalized.
	Finalize(ctx context.Context, id uuid.UUID, productsScraped int, status model.SessionStatus, errorMessage *string) error
	// LastCompleted returns the newest completed_at over completed sessions,
	// optionally filtered by supermarket code; nil when none exist.
	LastCompleted(ctx context.Context, supermarketCode string) (*time.Time, error)
}

// CatalogStore serves the denormalized read-side view.
type CatalogStore interface {
	ListBySupermarket(ctx context.Context, code string, filter model.CatalogFilter) ([]model.CatalogProduct, error)
	Search(ctx context.Context, term, code string) ([]model.CatalogProduct, error)
}
