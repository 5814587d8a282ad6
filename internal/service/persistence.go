package service

import (
	"context"
	"log/slog"

	"github.com/marktprijs/catalog/internal/metrics"
	"github.com/marktprijs/catalog/internal/model"
	"github.com/marktprijs/catalog/internal/repository"
)

// DefaultChunkSize bounds the number of products per storage transaction.
const DefaultChunkSize = 500

// PersistenceEngine writes batches of canonical products to storage in
// independent fixed-size chunks, so one failing chunk never aborts the rest
// of the batch.
type PersistenceEngine struct {
	products     repository.ProductStore
	categories   repository.CategoryStore
	supermarkets repository.SupermarketStore
	chunkSize    int
}

// NewPersistenceEngine creates an engine. A non-positive chunkSize falls back
// to DefaultChunkSize.
func NewPersistenceEngine(products repository.ProductStore, categories repository.CategoryStore, supermarkets repository.SupermarketStore, chunkSize int) *PersistenceEngine {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &PersistenceEngine{
		products:     products,
		categories:   categories,
		supermarkets: supermarkets,
		chunkSize:    chunkSize,
	}
}

// SaveBatch persists products chunk by chunk and returns the number of rows
// actually persisted. Per chunk it batch-resolves categories and supermarket
// ids, upserts the resolvable items and appends their price history. A chunk
// that fails is logged and skipped; later chunks still run. The returned
// count never includes items that were not stored.
func (e *PersistenceEngine) SaveBatch(ctx context.Context, products []*model.Product) int {
	if len(products) == 0 {
		return 0
	}

	saved := 0
	for start := 0; start < len(products); start += e.chunkSize {
		end := start + e.chunkSize
		if end > len(products) {
			end = len(products)
		}
		chunk := products[start:end]

		chunkSaved, err := e.saveChunk(ctx, chunk)
		if err != nil {
			metrics.SaveChunksFailed.Inc()
			slog.Error("failed to save chunk, continuing with next",
				slog.Int("chunk_start", start),
				slog.Int("chunk_size", len(chunk)),
				slog.String("first_product_id", chunk[0].ProductID),
				slog.Any("err", err))
			continue
		}
		saved += chunkSaved
		slog.Info("saved products chunk", slog.Int("saved_total", saved), slog.Int("batch_total", len(products)))
	}

	metrics.ProductsSaved.Add(float64(saved))
	metrics.ProductsSkipped.Add(float64(len(products) - saved))
	slog.Info("batch save completed", slog.Int("saved", saved), slog.Int("total", len(products)))
	return saved
}

func (e *PersistenceEngine) saveChunk(ctx context.Context, chunk []*model.Product) (int, error) {
	keys := make([]repository.CategoryKey, 0, len(chunk))
	supermarketIDs := make(map[string]int64)
	for _, product := range chunk {
		keys = append(keys, repository.CategoryKey{Name: product.CategoryName, SupermarketCode: product.SupermarketCode})
		if _, ok := supermarketIDs[product.SupermarketCode]; !ok {
			id, err := e.supermarkets.FindIDByCode(ctx, product.SupermarketCode)
			if err != nil {
				slog.Warn("supermarket not resolvable, its items will be skipped",
					slog.String("code", product.SupermarketCode), slog.Any("err", err))
				continue
			}
			supermarketIDs[product.SupermarketCode] = id
		}
	}

	categoryIDs, err := e.categories.ResolveBatch(ctx, keys)
	if err != nil {
		return 0, err
	}

	return e.products.SaveChunk(ctx, chunk, categoryIDs, supermarketIDs)
}
