package normalize

import (
	"fmt"
	"strings"

	"github.com/marktprijs/catalog/internal/model"
)

// ProductFactory validates raw adapter output and assembles canonical
// products. Construction is pure; an invalid item yields an error and the
// caller drops it.
type ProductFactory struct {
	supermarketCode string
}

// NewProductFactory creates a factory producing products for one source.
func NewProductFactory(supermarketCode string) *ProductFactory {
	return &ProductFactory{supermarketCode: supermarketCode}
}

// Create builds a Product from a raw item. It fails when the source id or
// name is missing, the price is not positive, or the unit amount parses to an
// invalid magnitude.
func (f *ProductFactory) Create(raw model.RawItem) (*model.Product, error) {
	if raw.ProductID == "" || raw.Name == "" {
		return nil, fmt.Errorf("item %q: %w", raw.ProductID, model.ErrMissingIdentity)
	}
	if raw.Price <= 0 {
		return nil, fmt.Errorf("item %q: %w", raw.ProductID, model.ErrInvalidPrice)
	}

	pricePerUnit, unitType, err := Canonicalize(raw.Price, raw.UnitAmount)
	if err != nil {
		return nil, fmt.Errorf("item %q: unit %q: %w", raw.ProductID, raw.UnitAmount, err)
	}

	brand := ""
	if raw.Brand != nil {
		brand = *raw.Brand
	}

	// An "original" price at or below the selling price is not a discount;
	// dropping the markup fields keeps the stored invariant intact.
	if raw.OriginalPrice != nil && *raw.OriginalPrice <= raw.Price {
		raw.OriginalPrice = nil
		raw.DiscountType = nil
		raw.DiscountStartDate = nil
		raw.DiscountEndDate = nil
	}

	product := &model.Product{
		ProductID:         raw.ProductID,
		Name:              strings.TrimSpace(raw.Name),
		CategoryName:      strings.TrimSpace(raw.Category),
		SupermarketCode:   f.supermarketCode,
		Price:             raw.Price,
		UnitAmount:        raw.UnitAmount,
		PricePerUnit:      pricePerUnit,
		UnitType:          unitType,
		SearchTags:        GenerateSearchTags(raw.Name, raw.Category, brand),
		OriginalPrice:     raw.OriginalPrice,
		DiscountType:      raw.DiscountType,
		DiscountStartDate: raw.DiscountStartDate,
		DiscountEndDate:   raw.DiscountEndDate,
		ImageURL:          raw.ImageURL,
	}

	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("item %q: %w", raw.ProductID, err)
	}
	return product, nil
}
