package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"
	"github.com/marktprijs/catalog/internal/normalize"
	"github.com/marktprijs/catalog/internal/repository"
)

// CategoryRepository implements repository.CategoryStore on Postgres.
// Categories are created lazily on first sighting and never deleted.
type CategoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new CategoryRepository instance.
func NewCategoryRepository(db *sql.DB) repository.CategoryStore {
	return &CategoryRepository{db: db}
}

// Resolve returns the category id for (slug(name), supermarket), creating the
// row when missing.
func (r *CategoryRepository) Resolve(ctx context.Context, name, supermarketCode string) (int64, error) {
	supermarketID, err := r.supermarketID(ctx, supermarketCode)
	if err != nil {
		return 0, err
	}

	slug := normalize.Slugify(name)

	var id int64
	query := `SELECT id FROM categories WHERE slug = $1 AND supermarket_id = $2`
	err = r.db.QueryRowContext(ctx, query, slug, supermarketID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to query category: %w", err)
	}

	insert := `INSERT INTO categories (name, slug, supermarket_id) VALUES ($1, $2, $3)
	           ON CONFLICT (slug, supermarket_id) DO NOTHING RETURNING id`
	err = r.db.QueryRowContext(ctx, insert, name, slug, supermarketID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		// Concurrent creation won; fetch the winner's id.
		err = r.db.QueryRowContext(ctx, query, slug, supermarketID).Scan(&id)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create category %q: %w", name, err)
	}
	return id, nil
}

// ResolveBatch resolves every distinct (name, supermarket) pair in keys. Per
// supermarket it issues one ANY-array lookup for existing slugs, one
// multi-row insert for the misses, then re-queries the inserted slugs for
// their generated ids. The re-query is deliberate: a bulk insert does not
// reliably yield individual generated ids per row across backends.
// Keys whose supermarket is unknown are left out of the result.
func (r *CategoryRepository) ResolveBatch(ctx context.Context, keys []repository.CategoryKey) (map[repository.CategoryKey]int64, error) {
	result := make(map[repository.CategoryKey]int64, len(keys))

	// Distinct names per supermarket code.
	byCode := make(map[string][]string)
	seen := make(map[repository.CategoryKey]struct{})
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		byCode[key.SupermarketCode] = append(byCode[key.SupermarketCode], key.Name)
	}

	for code, names := range byCode {
		supermarketID, err := r.supermarketID(ctx, code)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				slog.Warn("skipping categories for unknown supermarket", slog.String("code", code))
				continue
			}
			return nil, err
		}

		slugByName := make(map[string]string, len(names))
		slugs := make([]string, 0, len(names))
		for _, name := range names {
			slug := normalize.Slugify(name)
			slugByName[name] = slug
			slugs = append(slugs, slug)
		}

		found, err := r.idsBySlug(ctx, supermarketID, slugs)
		if err != nil {
			return nil, err
		}

		var missingNames []string
		missingSlugs := make(map[string]struct{})
		for _, name := range names {
			slug := slugByName[name]
			if _, ok := found[slug]; ok {
				continue
			}
			if _, dup := missingSlugs[slug]; dup {
				continue
			}
			missingSlugs[slug] = struct{}{}
			missingNames = append(missingNames, name)
		}

		if len(missingNames) > 0 {
			if err := r.createBatch(ctx, supermarketID, missingNames, slugByName); err != nil {
				return nil, err
			}
			created, err := r.idsBySlug(ctx, supermarketID, slugs)
			if err != nil {
				return nil, err
			}
			found = created
		}

		for _, name := range names {
			if id, ok := found[slugByName[name]]; ok {
				result[repository.CategoryKey{Name: name, SupermarketCode: code}] = id
			}
		}
	}

	return result, nil
}

func (r *CategoryRepository) idsBySlug(ctx context.Context, supermarketID int64, slugs []string) (map[string]int64, error) {
	query := `SELECT id, slug FROM categories WHERE supermarket_id = $1 AND slug = ANY($2)`

	rows, err := r.db.QueryContext(ctx, query, supermarketID, pq.Array(slugs))
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	found := make(map[string]int64)
	for rows.Next() {
		var id int64
		var slug string
		if err := rows.Scan(&id, &slug); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		found[slug] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return found, nil
}

func (r *CategoryRepository) createBatch(ctx context.Context, supermarketID int64, names []string, slugByName map[string]string) error {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`INSERT INTO categories (name, slug, supermarket_id) VALUES `)

	args := make([]interface{}, 0, len(names)*3)
	for i, name := range names {
		if i > 0 {
			queryBuilder.WriteString(", ")
		}
		queryBuilder.WriteString(fmt.Sprintf("($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3))
		args = append(args, name, slugByName[name], supermarketID)
	}
	queryBuilder.WriteString(` ON CONFLICT (slug, supermarket_id) DO NOTHING`)

	if _, err := r.db.ExecContext(ctx, queryBuilder.String(), args...); err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	return nil
}

func (r *CategoryRepository) supermarketID(ctx context.Context, code string) (int64, error) {
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
