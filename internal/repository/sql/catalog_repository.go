package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/marktprijs/catalog/internal/model"
	"github.com/marktprijs/catalog/internal/repository"
)

const catalogColumns = `product_id, name, category_name, supermarket_code, supermarket_name,
	price, unit_amount, price_per_unit, unit_type, original_price, discount_type, image_url, last_updated`

// CatalogRepository implements repository.CatalogStore over the denormalized
// products_with_details view.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new CatalogRepository instance.
func NewCatalogRepository(db *sql.DB) repository.CatalogStore {
	return &CatalogRepository{db: db}
}

// ListBySupermarket returns a supermarket's catalog ordered by name, with
// optional category substring and discount filters.
func (r *CatalogRepository) ListBySupermarket(ctx context.Context, code string, filter model.CatalogFilter) ([]model.CatalogProduct, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + catalogColumns + ` FROM products_with_details WHERE LOWER(supermarket_code) = LOWER($1)`)

	args := []interface{}{code}
	argIndex := 2

	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND category_name ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Category+"%")
		argIndex++
	}

	if filter.OnDiscount != nil {
		if *filter.OnDiscount {
			queryBuilder.WriteString(" AND original_price IS NOT NULL")
		} else {
			queryBuilder.WriteString(" AND original_price IS NULL")
		}
	}

	queryBuilder.WriteString(" ORDER BY name")

	if filter.Limit > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argIndex))
		args = append(args, filter.Limit)
	}

	return r.query(ctx, queryBuilder.String(), args...)
}

// Search returns products whose name or search tags match the term,
// optionally restricted to one supermarket.
func (r *CatalogRepository) Search(ctx context.Context, term, code string) ([]model.CatalogProduct, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + catalogColumns + ` FROM products_with_details
	          WHERE (name ILIKE $1 OR search_tags ILIKE $1)`)

	args := []interface{}{"%" + term + "%"}
	if code != "" {
		queryBuilder.WriteString(" AND LOWER(supermarket_code) = LOWER($2)")
		args = append(args, code)
	}
	queryBuilder.WriteString(" ORDER BY name")

	return r.query(ctx, queryBuilder.String(), args...)
}

func (r *CatalogRepository) query(ctx context.Context, query string, args ...interface{}) ([]model.CatalogProduct, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var products []model.CatalogProduct
	for rows.Next() {
		var p model.CatalogProduct
		err := rows.Scan(
			&p.ProductID, &p.Name, &p.CategoryName, &p.SupermarketCode, &p.SupermarketName,
			&p.Price, &p.UnitAmount, &p.PricePerUnit, &p.UnitType,
			&p.OriginalPrice, &p.DiscountType, &p.ImageURL, &p.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog rows: %w", err)
	}
	return products, nil
}
