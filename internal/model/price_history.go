package model

import (
	"time"

	"github.com/google/uuid"
)

// PriceHistoryEntry is an append-only audit record of one observed price.
// Entries are never updated or deleted.
type PriceHistoryEntry struct {
	ID            int64
	ProductRef    uuid.UUID
	Price         float64
	OriginalPrice *float64
	PricePerUnit  float64
	DiscountType  *string
	RecordedAt    time.Time
}
