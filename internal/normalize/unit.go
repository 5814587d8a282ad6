package normalize

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/marktprijs/catalog/internal/model"
	"github.com/shopspring/decimal"
)

// ErrInvalidQuantity is returned when a unit string parses to a zero or
// negative quantity, which cannot be priced.
var ErrInvalidQuantity = errors.New("unit quantity must be positive")

// unitAmountRe matches the first "<number> <unit token>" fragment in a unit
// amount string, e.g. "500g", "1.5 l", "24 pieces". Comma decimals are
// accepted because Dutch sources emit them.
var unitAmountRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*([a-zA-Z]+)`)

// unitConversions maps raw unit tokens to a base unit and the number of base
// units that make up one of the token's unit. The table is the single source
// of truth for every adapter; per-source copies are how rounding bugs happen.
var unitConversions = map[string]struct {
	base   model.UnitType
	factor int64
}{
	"g":        {model.UnitGram, 1},
	"gram":     {model.UnitGram, 1},
	"kg":       {model.UnitGram, 1000},
	"kilogram": {model.UnitGram, 1000},
	"ml":       {model.UnitML, 1},
	"l":        {model.UnitML, 1000},
	"liter":    {model.UnitML, 1000},
	"litre":    {model.UnitML, 1000},
	"st":       {model.UnitPiece, 1},
	"stuks":    {model.UnitPiece, 1},
	"piece":    {model.UnitPiece, 1},
	"pieces":   {model.UnitPiece, 1},
}

// Canonicalize converts a price plus a free-text unit amount into a price per
// canonical unit. Weight is always reported per KG and volume per LITER, no
// matter the magnitude supplied, so "500 g" and "2 kg" price on the same
// scale. Unparseable or unknown unit text falls back to pricing the item as a
// single piece. A parsed quantity of zero or less returns ErrInvalidQuantity.
//
// The function is pure and deterministic; the result is rounded half-up to 2
// decimal places using exact decimal arithmetic.
func Canonicalize(price float64, unitText string) (float64, model.UnitType, error) {
	match := unitAmountRe.FindStringSubmatch(strings.ToLower(unitText))
	if match == nil {
		return roundPrice(price), model.UnitPiece, nil
	}

	quantity, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
	if err != nil {
		return roundPrice(price), model.UnitPiece, nil
	}

	conv, ok := unitConversions[match[2]]
	if !ok {
		return roundPrice(price), model.UnitPiece, nil
	}

	totalBaseUnits := decimal.NewFromFloat(quantity).Mul(decimal.NewFromInt(conv.factor))
	if !totalBaseUnits.IsPositive() {
		return 0, model.UnitPiece, ErrInvalidQuantity
	}

	perBaseUnit := decimal.NewFromFloat(price).Div(totalBaseUnits)

	switch conv.base {
	case model.UnitGram:
		perUnit, _ := perBaseUnit.Mul(decimal.NewFromInt(1000)).Round(2).Float64()
		return perUnit, model.UnitKG, nil
	case model.UnitML:
		perUnit, _ := perBaseUnit.Mul(decimal.NewFromInt(1000)).Round(2).Float64()
		return perUnit, model.UnitLiter, nil
	default:
		perUnit, _ := perBaseUnit.Round(2).Float64()
		return perUnit, model.UnitPiece, nil
	}
}

func roundPrice(price float64) float64 {
	rounded, _ := decimal.NewFromFloat(price).Round(2).Float64()
	return rounded
}
