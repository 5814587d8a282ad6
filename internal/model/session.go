package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a scraping session.
// Transitions: running -> completed or running -> failed, both terminal.
type SessionStatus string

const (
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
)

// Terminal reports whether no further transitions are allowed.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionFailed
}

// ScrapingSession records one run of one source. CompletedAt is only set on
// the terminal transition; the maximum CompletedAt over completed sessions of
// a source is its authoritative last-successful-scrape timestamp.
type ScrapingSession struct {
	ID              uuid.UUID
	SupermarketID   int64
	SupermarketCode string
	StartedAt       time.Time
	CompletedAt     *time.Time
	Status          SessionStatus
	ProductsScraped int
	ErrorMessage    *string
}

// InitMeta initializes the session identity and start time.
func (s *ScrapingSession) InitMeta() {
	s.ID = uuid.New()
	s.StartedAt = time.Now()
	s.Status = SessionRunning
}
