package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marktprijs/catalog/internal/model"
	"github.com/marktprijs/catalog/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogStore struct {
	listFunc   func(ctx context.Context, code string, filter model.CatalogFilter) ([]model.CatalogProduct, error)
	searchFunc func(ctx context.Context, term, supermarketCode string) ([]model.CatalogProduct, error)
}

func (f *fakeCatalogStore) ListBySupermarket(ctx context.Context, code string, filter model.CatalogFilter) ([]model.CatalogProduct, error) {
	return f.listFunc(ctx, code, filter)
}

func (f *fakeCatalogStore) Search(ctx context.Context, term, supermarketCode string) ([]model.CatalogProduct, error) {
	return f.searchFunc(ctx, term, supermarketCode)
}

type fakeSessionStore struct {
	lastCompletedFunc func(ctx context.Context, supermarketCode string) (*time.Time, error)
}

func (f *fakeSessionStore) Insert(_ context.Context, _ *model.ScrapingSession) error {
	return nil
}

func (f *fakeSessionStore) Finalize(_ context.Context, _ uuid.UUID, _ int, _ model.SessionStatus, _ *string) error {
	return nil
}

func (f *fakeSessionStore) LastCompleted(ctx context.Context, supermarketCode string) (*time.Time, error) {
	return f.lastCompletedFunc(ctx, supermarketCode)
}

type fakeSupermarketStore struct{}

func (f *fakeSupermarketStore) FindIDByCode(_ context.Context, _ string) (int64, error) {
	return 7, nil
}

func (f *fakeSupermarketStore) Ensure(_ context.Context, _, _, _ string) (int64, error) {
	return 7, nil
}

func catalogProduct(name string) model.CatalogProduct {
	return model.CatalogProduct{
		ProductID:       "p-" + name,
		Name:            name,
		CategoryName:    "Zuivel",
		SupermarketCode: "AH",
		SupermarketName: "Albert Heijn",
		Price:           1.19,
		UnitAmount:      "1 l",
		PricePerUnit:    1.19,
		UnitType:        model.UnitLiter,
		LastUpdated:     time.Date(2026, 8, 25, 3, 0, 0, 0, time.UTC),
	}
}

func newTestController(catalog *fakeCatalogStore, sessions *fakeSessionStore) *CatalogController {
	return NewCatalogController(
		service.NewCatalogService(catalog),
		service.NewSessionTracker(sessions, &fakeSupermarketStore{}),
	)
}

func performRequest(handler gin.HandlerFunc, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	handler(c)
	return recorder
}

func TestCatalogController_ListProducts(t *testing.T) {
	t.Run("returns the supermarket's products", func(t *testing.T) {
		catalog := &fakeCatalogStore{
			listFunc: func(_ context.Context, code string, filter model.CatalogFilter) ([]model.CatalogProduct, error) {
				assert.Equal(t, "AH", code)
				assert.Equal(t, "zuivel", filter.Category)
				require.NotNil(t, filter.OnDiscount)
				assert.True(t, *filter.OnDiscount)
				assert.Equal(t, 10, filter.Limit)
				return []model.CatalogProduct{catalogProduct("Melk")}, nil
			},
		}
		ctr := newTestController(catalog, &fakeSessionStore{})

		recorder := performRequest(ctr.ListProducts, "/products?supermarket=AH&category=zuivel&discounted=true&limit=10")
		require.Equal(t, http.StatusOK, recorder.Code)

		var body struct {
			Products []CatalogProductResponse `json:"products"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		require.Len(t, body.Products, 1)
		assert.Equal(t, "Melk", body.Products[0].Name)
		assert.Equal(t, "liter", body.Products[0].UnitType)
	})

	t.Run("missing supermarket is a bad request", func(t *testing.T) {
		ctr := newTestController(&fakeCatalogStore{}, &fakeSessionStore{})

		recorder := performRequest(ctr.ListProducts, "/products")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("rejects malformed filters", func(t *testing.T) {
		ctr := newTestController(&fakeCatalogStore{}, &fakeSessionStore{})

		recorder := performRequest(ctr.ListProducts, "/products?supermarket=AH&discounted=maybe")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		recorder = performRequest(ctr.ListProducts, "/products?supermarket=AH&limit=-3")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("store failure is a server error", func(t *testing.T) {
		catalog := &fakeCatalogStore{
			listFunc: func(_ context.Context, _ string, _ model.CatalogFilter) ([]model.CatalogProduct, error) {
				return nil, errors.New("db down")
			},
		}
		ctr := newTestController(catalog, &fakeSessionStore{})

		recorder := performRequest(ctr.ListProducts, "/products?supermarket=AH")
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})
}

func TestCatalogController_SearchProducts(t *testing.T) {
	t.Run("searches by term", func(t *testing.T) {
		catalog := &fakeCatalogStore{
			searchFunc: func(_ context.Context, term, supermarketCode string) ([]model.CatalogProduct, error) {
				assert.Equal(t, "melk", term)
				assert.Equal(t, "AH", supermarketCode)
				return []model.CatalogProduct{catalogProduct("Melk")}, nil
			},
		}
		ctr := newTestController(catalog, &fakeSessionStore{})

		recorder := performRequest(ctr.SearchProducts, "/products/search?q=melk&supermarket=AH")
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Melk")
	})

	t.Run("missing term is a bad request", func(t *testing.T) {
		ctr := newTestController(&fakeCatalogStore{}, &fakeSessionStore{})

		recorder := performRequest(ctr.SearchProducts, "/products/search")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestCatalogController_LastCompletedSession(t *testing.T) {
	t.Run("null before any completed run", func(t *testing.T) {
		sessions := &fakeSessionStore{
			lastCompletedFunc: func(_ context.Context, _ string) (*time.Time, error) {
				return nil, nil
			},
		}
		ctr := newTestController(&fakeCatalogStore{}, sessions)

		recorder := performRequest(ctr.LastCompletedSession, "/sessions/last-completed")
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"last_completed": null}`, recorder.Body.String())
	})

	t.Run("timestamp of the newest completed run", func(t *testing.T) {
		completedAt := time.Date(2026, 8, 25, 3, 0, 0, 0, time.UTC)
		sessions := &fakeSessionStore{
			lastCompletedFunc: func(_ context.Context, code string) (*time.Time, error) {
				assert.Equal(t, "AH", code)
				return &completedAt, nil
			},
		}
		ctr := newTestController(&fakeCatalogStore{}, sessions)

		recorder := performRequest(ctr.LastCompletedSession, "/sessions/last-completed?supermarket=AH")
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "2026-08-25T03:00:00Z")
	})
}
