package model

import "time"

// CatalogProduct is the denormalized read-side row served from the
// products_with_details view (product joined with category and supermarket).
type CatalogProduct struct {
	ProductID       string
	Name            string
	CategoryName    string
	SupermarketCode string
	SupermarketName string
	Price           float64
	UnitAmount      string
	PricePerUnit    float64
	UnitType        UnitType
	OriginalPrice   *float64
	DiscountType    *string
	ImageURL        *string
	LastUpdated     time.Time
}
