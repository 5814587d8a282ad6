package model

// CatalogFilter narrows a read-side catalog listing.
type CatalogFilter struct {
	// Category matches category names by substring when non-empty.
	Category string
	// OnDiscount filters to discounted (true) or full-price (false) items.
	OnDiscount *bool
	// Limit caps the number of rows; non-positive means no cap.
	Limit int
}
