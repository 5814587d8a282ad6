package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marktprijs/catalog/internal/model"
	"github.com/marktprijs/catalog/internal/normalize"
)

// DefaultFlushSize is how many validated products accumulate before an
// in-flight run is flushed to the persistence engine.
const DefaultFlushSize = 500

// RunSummary is what the orchestration layer sees at the end of a run:
// received vs. actually-persisted counts plus the terminal status.
type RunSummary struct {
	SupermarketCode string
	SessionID       uuid.UUID
	Scraped         int
	Saved           int
	Dropped         int
	Status          model.SessionStatus
	Duration        time.Duration
}

// IngestCoordinator drives one scraping run per supermarket: it opens the
// session, validates raw items through the product factory, flushes batches
// to the persistence engine and finalizes the session. Items must be handed
// over sequentially or through a synchronized queue; the engine is not built
// for concurrent callers on one run.
type IngestCoordinator struct {
	engine    *PersistenceEngine
	tracker   *SessionTracker
	flushSize int

	mu   sync.Mutex
	runs map[string]*ingestRun
}

type ingestRun struct {
	sessionID uuid.UUID
	factory   *normalize.ProductFactory
	pending   []*model.Product
	scraped   int
	saved     int
	dropped   int
	startedAt time.Time
}

// NewIngestCoordinator creates a coordinator. A non-positive flushSize falls
// back to DefaultFlushSize.
func NewIngestCoordinator(engine *PersistenceEngine, tracker *SessionTracker, flushSize int) *IngestCoordinator {
	if flushSize <= 0 {
		flushSize = DefaultFlushSize
	}
	return &IngestCoordinator{
		engine:    engine,
		tracker:   tracker,
		flushSize: flushSize,
		runs:      make(map[string]*ingestRun),
	}
}

// BeginRun starts a tracked session for the supermarket. A run already in
// progress for the same code is an error; one logical writer per source.
func (c *IngestCoordinator) BeginRun(ctx context.Context, supermarketCode string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.runs[supermarketCode]; exists {
		return fmt.Errorf("run already in progress for %q", supermarketCode)
	}

	sessionID, err := c.tracker.Start(ctx, supermarketCode)
	if err != nil {
		return err
	}

	c.runs[supermarketCode] = &ingestRun{
		sessionID: sessionID,
		factory:   normalize.NewProductFactory(supermarketCode),
		startedAt: time.Now(),
	}
	return nil
}

// AddItem validates one raw item and queues it for persistence. Invalid items
// are dropped and logged, not retried. The pending buffer is flushed to the
// engine whenever it reaches the flush size.
func (c *IngestCoordinator) AddItem(ctx context.Context, supermarketCode string, raw model.RawItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	run, exists := c.runs[supermarketCode]
	if !exists {
		return fmt.Errorf("no run in progress for %q", supermarketCode)
	}

	run.scraped++
	product, err := run.factory.Create(raw)
	if err != nil {
		run.dropped++
		slog.Warn("dropping invalid item", slog.String("supermarket", supermarketCode), slog.Any("err", err))
		return nil
	}

	run.pending = append(run.pending, product)
	if len(run.pending) >= c.flushSize {
		c.flush(ctx, run)
	}
	return nil
}

// FinishRun flushes what is pending and finalizes the session. When failed is
// true the session ends as failed with errMsg recorded; otherwise completed.
// The summary's Saved count only reflects rows actually persisted.
func (c *IngestCoordinator) FinishRun(ctx context.Context, supermarketCode string, failed bool, errMsg string) (RunSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	run, exists := c.runs[supermarketCode]
	if !exists {
		return RunSummary{}, fmt.Errorf("no run in progress for %q", supermarketCode)
	}
	delete(c.runs, supermarketCode)

	if !failed {
		c.flush(ctx, run)
	}

	status := model.SessionCompleted
	var errorMessage *string
	if failed {
		status = model.SessionFailed
		if errMsg != "" {
			errorMessage = &errMsg
		}
	}

	if err := c.tracker.End(ctx, run.sessionID, run.saved, status, errorMessage); err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{
		SupermarketCode: supermarketCode,
		SessionID:       run.sessionID,
		Scraped:         run.scraped,
		Saved:           run.saved,
		Dropped:         run.dropped,
		Status:          status,
		Duration:        time.Since(run.startedAt),
	}
	slog.Info("ingest run finished",
		slog.String("supermarket", summary.SupermarketCode),
		slog.Int("scraped", summary.Scraped),
		slog.Int("saved", summary.Saved),
		slog.Int("dropped", summary.Dropped),
		slog.String("status", string(summary.Status)),
		slog.Duration("duration", summary.Duration))
	return summary, nil
}

func (c *IngestCoordinator) flush(ctx context.Context, run *ingestRun) {
	if len(run.pending) == 0 {
		return
	}
	run.saved += c.engine.SaveBatch(ctx, run.pending)
	run.pending = run.pending[:0]
}
