package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// UnitType is the unit a price-per-unit value is expressed in.
// Normalization only ever reports KG, LITER or PIECE; the remaining
// values exist for raw data that carries its own unit.
type UnitType string

const (
	UnitKG    UnitType = "kg"
	UnitLiter UnitType = "liter"
	UnitPiece UnitType = "piece"
	UnitMeter UnitType = "meter"
	UnitGram  UnitType = "gram"
	UnitML    UnitType = "ml"
)

var (
	// ErrMissingIdentity is returned when a product lacks its source id or name.
	ErrMissingIdentity = errors.New("product id and name are required")

	// ErrInvalidPrice is returned when a price or price-per-unit is not positive.
	ErrInvalidPrice = errors.New("price and price per unit must be positive")
)

// RawItem is the record every source adapter hands to the core, exactly as
// extracted. Required: ProductID, Name, Category, Price, UnitAmount.
type RawItem struct {
	ProductID         string
	Name              string
	Category          string
	Price             float64
	UnitAmount        string
	OriginalPrice     *float64
	DiscountType      *string
	Brand             *string
	DiscountStartDate *time.Time
	DiscountEndDate   *time.Time
	ImageURL          *string
}

// Product is one canonical listing for one supermarket. It is rebuilt from
// scratch on every run; a later run overwrites the stored row for the same
// (ProductID, SupermarketCode) pair.
type Product struct {
	ID                uuid.UUID
	ProductID         string
	Name              string
	CategoryName      string
	SupermarketCode   string
	Price             float64
	UnitAmount        string
	PricePerUnit      float64
	UnitType          UnitType
	SearchTags        string
	OriginalPrice     *float64
	DiscountType      *string
	DiscountStartDate *time.Time
	DiscountEndDate   *time.Time
	ImageURL          *string
	LastUpdated       time.Time
}

// InitMeta assigns a fresh surrogate id. The id only survives the first
// insert; upserts keep the existing row identity.
func (p *Product) InitMeta() {
	p.ID = uuid.New()
	p.LastUpdated = time.Now()
}

// Validate enforces the invariants every persisted product must satisfy.
func (p *Product) Validate() error {
	if p.ProductID == "" || p.Name == "" {
		return ErrMissingIdentity
	}
	if p.Price <= 0 || p.PricePerUnit <= 0 {
		return ErrInvalidPrice
	}
	return nil
}
