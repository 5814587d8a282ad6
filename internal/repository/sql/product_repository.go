package sql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/marktprijs/catalog/internal/model"
	"github.com/marktprijs/catalog/internal/repository"
)

const upsertProductQuery = `
INSERT INTO products (
	id, product_id, name, category_id, supermarket_id, price, unit_amount,
	price_per_unit, unit_type, original_price, discount_type,
	discount_start_date, discount_end_date, search_tags, image_url, last_updated
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
ON CONFLICT (product_id, supermarket_id) DO UPDATE SET
	name = EXCLUDED.name,
	category_id = EXCLUDED.category_id,
	price = EXCLUDED.price,
	unit_amount = EXCLUDED.unit_amount,
	price_per_unit = EXCLUDED.price_per_unit,
	unit_type = EXCLUDED.unit_type,
	original_price = EXCLUDED.original_price,
	discount_type = EXCLUDED.discount_type,
	discount_start_date = EXCLUDED.discount_start_date,
	discount_end_date = EXCLUDED.discount_end_date,
	search_tags = EXCLUDED.search_tags,
	image_url = EXCLUDED.image_url,
	last_updated = NOW()
RETURNING id`

const insertPriceHistoryQuery = `
INSERT INTO price_history (product_ref, price, original_price, price_per_unit, discount_type)
VALUES ($1, $2, $3, $4, $5)`

// ProductRepository implements repository.ProductStore on Postgres.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *sql.DB) repository.ProductStore {
	return &ProductRepository{db: db}
}

// SaveChunk upserts one chunk of products in a single transaction, keyed by
// (product_id, supermarket_id), and appends one price-history row per
// upserted product. Items whose category or supermarket id is not in the
// provided maps are skipped with a warning rather than failing the chunk.
// A failed chunk is retried once after a reconnect ping; the upsert is
// idempotent so the retry cannot double-apply.
func (r *ProductRepository) SaveChunk(ctx context.Context, products []*model.Product, categoryIDs map[repository.CategoryKey]int64, supermarketIDs map[string]int64) (int, error) {
	var saved int
	err := withReconnect(ctx, r.db, "save products chunk", func() error {
		var err error
		saved, err = r.saveChunk(ctx, products, categoryIDs, supermarketIDs)
		return err
	})
	if err != nil {
		return 0, err
	}
	return saved, nil
}

func (r *ProductRepository) saveChunk(ctx context.Context, products []*model.Product, categoryIDs map[repository.CategoryKey]int64, supermarketIDs map[string]int64) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsertStmt, err := tx.PrepareContext(ctx, upsertProductQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert statement: %w", err)
	}
	defer upsertStmt.Close()

	historyStmt, err := tx.PrepareContext(ctx, insertPriceHistoryQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare price history statement: %w", err)
	}
	defer historyStmt.Close()

	saved := 0
	for _, product := range products {
		categoryID, okCat := categoryIDs[repository.CategoryKey{Name: product.CategoryName, SupermarketCode: product.SupermarketCode}]
		supermarketID, okSup := supermarketIDs[product.SupermarketCode]
		if !okCat || !okSup {
			slog.Warn("skipping product with unresolved category or supermarket",
				slog.String("product_id", product.ProductID),
				slog.String("supermarket", product.SupermarketCode))
			continue
		}

		if product.ID == uuid.Nil {
			product.InitMeta()
		}

		var rowID uuid.UUID
		err = upsertStmt.QueryRowContext(ctx,
			product.ID, product.ProductID, product.Name, categoryID, supermarketID,
			product.Price, product.UnitAmount, product.PricePerUnit, product.UnitType,
			product.OriginalPrice, product.DiscountType,
			product.DiscountStartDate, product.DiscountEndDate,
			product.SearchTags, product.ImageURL,
		).Scan(&rowID)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert product %s: %w", product.ProductID, err)
		}

		_, err = historyStmt.ExecContext(ctx,
			rowID, product.Price, product.OriginalPrice, product.PricePerUnit, product.DiscountType)
		if err != nil {
			return 0, fmt.Errorf("failed to insert price history for %s: %w", product.ProductID, err)
		}

		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return saved, nil
}
