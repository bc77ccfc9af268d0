package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/angelmondragon/qtyoffers/api/controllers"
	"github.com/angelmondragon/qtyoffers/internal/cart"
	"github.com/angelmondragon/qtyoffers/internal/offers"
	"github.com/angelmondragon/qtyoffers/internal/storefront"
	"github.com/angelmondragon/qtyoffers/pkg/auth"
	"github.com/angelmondragon/qtyoffers/pkg/config"
	"github.com/angelmondragon/qtyoffers/pkg/db"
	"github.com/angelmondragon/qtyoffers/pkg/db/models"
	"github.com/angelmondragon/qtyoffers/pkg/logger"
	"github.com/angelmondragon/qtyoffers/pkg/metrics"
)

type testServer struct {
	handler http.Handler
	cfg     *config.Config
	product *models.Product
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	conn, err := db.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())))
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(&models.Product{}, &models.ProductQuantityOffer{}))

	cfg := &config.Config{
		App:     config.AppConfig{Env: "test", CORSAllowedOrigins: []string{"http://localhost:3000"}},
		JWT:     config.JWTConfig{Secret: "secret", Issuer: "qtyoffers", ExpirationMinutes: 10},
		Pricing: config.PricingConfig{MaxApplications: 1, AutoSubmit: true, DefaultQuantity: 3},
	}
	logg := logger.Nop()
	reg := prometheus.NewRegistry()
	pricingMetrics := metrics.NewPricingMetrics(reg)
	dbClient := db.NewFromConn(conn, db.DriverSQLite)

	repo := offers.NewRepository(conn)
	offersSvc, err := offers.NewService(offers.ServiceParams{
		Repo:                repo,
		DB:                  dbClient,
		Metrics:             pricingMetrics,
		Logger:              logg,
		PlaceholderQuantity: cfg.Pricing.DefaultQuantity,
	})
	require.NoError(t, err)
	cartSvc, err := cart.NewService(offersSvc, pricingMetrics, logg)
	require.NoError(t, err)
	storefrontSvc, err := storefront.NewService(offersSvc, cfg.Pricing.AutoSubmit)
	require.NoError(t, err)

	product, err := repo.CreateProduct(context.Background(), &models.Product{
		SKU:          "SKU-1",
		Title:        "Coffee beans",
		RegularPrice: decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)

	handler := NewRouter(Dependencies{
		Config:     cfg,
		Logger:     logg,
		Gatherer:   reg,
		Pingers:    map[string]controllers.Pinger{"db": dbClient},
		Offers:     offersSvc,
		Cart:       cartSvc,
		Storefront: storefrontSvc,
	})
	return &testServer{handler: handler, cfg: cfg, product: product}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) adminToken(t *testing.T, role auth.Role) string {
	t.Helper()
	token, err := auth.MintAccessToken(s.cfg.JWT, time.Now(), auth.AccessTokenPayload{UserID: uuid.New(), Role: role})
	require.NoError(t, err)
	return token
}

func TestHealthRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	srv := newTestServer(t)
	path := "/api/admin/v1/products/" + srv.product.ID.String() + "/quantity-offers"

	rec := srv.do(t, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestQuantityOffersEndToEnd(t *testing.T) {
	srv := newTestServer(t)
	productID := srv.product.ID.String()
	adminPath := "/api/admin/v1/products/" + productID + "/quantity-offers"
	token := srv.adminToken(t, auth.RoleShopManager)

	form := url.Values{
		"sqp_enable":            {"yes"},
		"sqp_offer_quantity[]":  {"5", "3", "0"},
		"sqp_offer_price[]":     {"40", "25", "12"},
		"sqp_offer_active[]":    {"yes", "yes", "yes"},
		"sqp_offer_best_seller": {"0"},
	}
	req := httptest.NewRequest(http.MethodPut, adminPath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := srv.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID+"/quantity-offers", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var display struct {
		Data storefront.Display `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&display))
	assert.True(t, display.Data.Enabled)
	assert.Equal(t, 5, display.Data.SelectQuantity)
	require.Len(t, display.Data.Offers, 2)
	assert.True(t, display.Data.Offers[0].UnitPrice.Equal(decimal.RequireFromString("8.33")))

	payload := `{"lines":[{"product_id":"` + productID + `","quantity":4,"unit_price":"10.00"}]}`
	rec = srv.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/cart/recalculate", strings.NewReader(payload)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var recalculated struct {
		Data struct {
			Lines []struct {
				UnitPrice decimal.Decimal `json:"unit_price"`
				Applied   bool            `json:"applied"`
			} `json:"lines"`
			Total decimal.Decimal `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&recalculated))
	require.Len(t, recalculated.Data.Lines, 1)
	assert.True(t, recalculated.Data.Lines[0].Applied)
	assert.True(t, recalculated.Data.Lines[0].UnitPrice.Equal(decimal.RequireFromString("8.33")))
	assert.True(t, recalculated.Data.Total.Equal(decimal.RequireFromString("33.32")))

	req = httptest.NewRequest(http.MethodDelete, adminPath, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = srv.do(t, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID+"/quantity-offers", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	display.Data = storefront.Display{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&display))
	assert.False(t, display.Data.Enabled)
	assert.Empty(t, display.Data.Offers)

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "quantity_offer_resolutions_total")
}

func TestStorefrontUnknownProduct(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/products/"+uuid.NewString()+"/quantity-offers", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/products/not-a-uuid/quantity-offers", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
