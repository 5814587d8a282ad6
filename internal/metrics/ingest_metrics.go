package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProductsSaved counts products actually persisted across all batches.
	ProductsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_saved_total",
		Help: "The total number of products persisted to the catalog",
	})

	// ProductsSkipped counts products handed to the engine but not persisted.
	ProductsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_skipped_total",
		Help: "The total number of products that were not persisted",
	})

	// SaveChunksFailed counts chunks abandoned after a storage error.
	SaveChunksFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_save_chunks_failed_total",
		Help: "The total number of persistence chunks that failed and were skipped",
	})

	// ScrapingSessions counts finalized sessions by terminal status.
	ScrapingSessions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_scraping_sessions_total",
		Help: "The total number of finalized scraping sessions by status",
	}, []string{"status"})
)
