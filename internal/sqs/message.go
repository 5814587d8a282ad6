package sqs

import (
	"time"

	"github.com/marktprijs/catalog/internal/model"
)

// IntakeAction discriminates intake queue messages.
type IntakeAction string

const (
	// ActionStartSession opens a tracked run for a supermarket.
	ActionStartSession IntakeAction = "start_session"
	// ActionItem carries one raw scraped item.
	ActionItem IntakeAction = "item"
	// ActionEndSession closes the run with its terminal outcome.
	ActionEndSession IntakeAction = "end_session"
)

// IntakeMessage is the wire envelope source adapters publish to the intake
// queue. Items must arrive between a start_session and end_session pair for
// their supermarket.
type IntakeMessage struct {
	Action          IntakeAction    `json:"action"`
	SupermarketCode string          `json:"supermarket_code"`
	Item            *RawItemPayload `json:"item,omitempty"`
	Failed          bool            `json:"failed,omitempty"`
	ErrorMessage    string          `json:"error_message,omitempty"`
}

// RawItemPayload is the JSON shape of one raw item on the queue.
type RawItemPayload struct {
	ProductID         string     `json:"product_id"`
	Name              string     `json:"name"`
	Category          string     `json:"category"`
	Price             float64    `json:"price"`
	UnitAmount        string     `json:"unit_amount"`
	OriginalPrice     *float64   `json:"original_price,omitempty"`
	DiscountType      *string    `json:"discount_type,omitempty"`
	Brand             *string    `json:"brand,omitempty"`
	DiscountStartDate *time.Time `json:"discount_start_date,omitempty"`
	DiscountEndDate   *time.Time `json:"discount_end_date,omitempty"`
	ImageURL          *string    `json:"image_url,omitempty"`
}

// ToModel converts the wire payload into the core raw item record.
func (p *RawItemPayload) ToModel() model.RawItem {
	return model.RawItem{
		ProductID:         p.ProductID,
		Name:              p.Name,
		Category:          p.Category,
		Price:             p.Price,
		UnitAmount:        p.UnitAmount,
		OriginalPrice:     p.OriginalPrice,
		DiscountType:      p.DiscountType,
		Brand:             p.Brand,
		DiscountStartDate: p.DiscountStartDate,
		DiscountEndDate:   p.DiscountEndDate,
		ImageURL:          p.ImageURL,
	}
}

// FromRawItem converts a core raw item into its wire payload.
func FromRawItem(item model.RawItem) *RawItemPayload {
	return &RawItemPayload{
		ProductID:         item.ProductID,
		Name:              item.Name,
		Category:          item.Category,
		Price:             item.Price,
		UnitAmount:        item.UnitAmount,
		OriginalPrice:     item.OriginalPrice,
		DiscountType:      item.DiscountType,
		Brand:             item.Brand,
		DiscountStartDate: item.DiscountStartDate,
		DiscountEndDate:   item.DiscountEndDate,
		ImageURL:          item.ImageURL,
	}
}
