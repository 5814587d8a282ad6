package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/marktprijs/catalog/internal/model"
	"github.com/marktprijs/catalog/internal/service"
)

// CatalogController handles HTTP requests for read-side catalog queries.
type CatalogController struct {
	catalogService *service.CatalogService
	sessionTracker *service.SessionTracker
}

// NewCatalogController creates a new CatalogController.
func NewCatalogController(catalogService *service.CatalogService, sessionTracker *service.SessionTracker) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		sessionTracker: sessionTracker,
	}
}

// CatalogProductResponse represents one catalog row in API responses.
type CatalogProductResponse struct {
	ProductID       string   `json:"product_id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Supermarket     string   `json:"supermarket"`
	SupermarketName string   `json:"supermarket_name"`
	Price           float64  `json:"price"`
	UnitAmount      string   `json:"unit_amount"`
	PricePerUnit    float64  `json:"price_per_unit"`
	UnitType        string   `json:"unit_type"`
	OriginalPrice   *float64 `json:"original_price,omitempty"`
	DiscountType    *string  `json:"discount_type,omitempty"`
	ImageURL        *string  `json:"image_url,omitempty"`
	LastUpdated     string   `json:"last_updated"`
}

// ListProducts handles GET /products?supermarket=&category=&discounted=&limit=.
func (cc *CatalogController) ListProducts(c *gin.Context) {
	code := c.Query("supermarket")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "supermarket query parameter is required"})
		return
	}

	filter := model.CatalogFilter{Category: c.Query("category")}
	if discounted := c.Query("discounted"); discounted != "" {
		onDiscount, err := strconv.ParseBool(discounted)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "discounted must be a boolean"})
			return
		}
		filter.OnDiscount = &onDiscount
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive number"})
			return
		}
		filter.Limit = n
	}

	products, err := cc.catalogService.ListBySupermarket(c.Request.Context(), code, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": toCatalogResponses(products)})
}

// SearchProducts handles GET /products/search?q=&supermarket=.
func (cc *CatalogController) SearchProducts(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})
		return
	}

	products, err := cc.catalogService.Search(c.Request.Context(), term, c.Query("supermarket"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": toCatalogResponses(products)})
}

// LastCompletedSession handles GET /sessions/last-completed?supermarket=.
// Collaborators use this timestamp for incremental re-scraping decisions.
func (cc *CatalogController) LastCompletedSession(c *gin.Context) {
	completedAt, err := cc.sessionTracker.LastCompleted(c.Request.Context(), c.Query("supermarket"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query sessions"})
		return
	}

	if completedAt == nil {
		c.JSON(http.StatusOK, gin.H{"last_completed": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"last_completed": completedAt})
}

func toCatalogResponses(products []model.CatalogProduct) []CatalogProductResponse {
	responses := make([]CatalogProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, CatalogProductResponse{
			ProductID:       p.ProductID,
			Name:            p.Name,
			Category:        p.CategoryName,
			Supermarket:     p.SupermarketCode,
			SupermarketName: p.SupermarketName,
			Price:           p.Price,
			UnitAmount:      p.UnitAmount,
			PricePerUnit:    p.PricePerUnit,
			UnitType:        string(p.UnitType),
			OriginalPrice:   p.OriginalPrice,
			DiscountType:    p.DiscountType,
			ImageURL:        p.ImageURL,
			LastUpdated:     p.LastUpdated.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return responses
}
