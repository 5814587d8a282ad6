package model

// Category groups products within one supermarket. Categories are created
// lazily the first time a listing mentions them and are never deleted.
// Uniqueness is on (Slug, SupermarketID).
type Category struct {
	ID            int64
	Name          string
	Slug          string
	SupermarketID int64
}
