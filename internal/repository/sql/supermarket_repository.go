package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/marktprijs/catalog/internal/model"
	"github.com/marktprijs/catalog/internal/repository"
)

// SupermarketRepository implements repository.SupermarketStore on Postgres.
type SupermarketRepository struct {
	db *sql.DB
}

// NewSupermarketRepository creates a new SupermarketRepository instance.
func NewSupermarketRepository(db *sql.DB) repository.SupermarketStore {
	return &SupermarketRepository{db: db}
}

// FindIDByCode looks up a supermarket id by code, case-insensitively.
func (r *SupermarketRepository) FindIDByCode(ctx context.Context, code string) (int64, error) {
	query := `SELECT id FROM supermarkets WHERE LOWER(code) = LOWER($1)`

	var id int64
	err := r.db.QueryRowContext(ctx, query, code).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("supermarket %q: %w", code, repository.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to query supermarket: %w", err)
	}
	return id, nil
}

// Ensure creates the supermarket if it does not exist yet and returns its id.
// Codes are stored uppercased; missing name or base URL fall back to the
// built-in defaults.
func (r *SupermarketRepository) Ensure(ctx context.Context, code, name, baseURL string) (int64, error) {
	id, err := r.FindIDByCode(ctx, code)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}

	codeNorm := strings.ToUpper(code)
	if name == "" || baseURL == "" {
		if def, ok := model.KnownSupermarkets[codeNorm]; ok {
			name, baseURL = def.Name, def.BaseURL
		} else {
			name, baseURL = code, "https://example.com"
		}
	}

	query := `INSERT INTO supermarkets (code, name, base_url) VALUES ($1, $2, $3)
	          ON CONFLICT (code) DO NOTHING RETURNING id`

	err = r.db.QueryRowContext(ctx, query, codeNorm, name, baseURL).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		// Lost a race with a concurrent insert; the row exists now.
		return r.FindIDByCode(ctx, codeNorm)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create supermarket %q: %w", code, err)
	}

	slog.Info("registered supermarket", slog.String("code", codeNorm), slog.String("name", name))
	return id, nil
}
