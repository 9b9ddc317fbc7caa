package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/your-org/boutique-backend/internal/config"
	"github.com/your-org/boutique-backend/internal/domain/delivery"
	"github.com/your-org/boutique-backend/internal/domain/order"
	"github.com/your-org/boutique-backend/internal/domain/product"
	"github.com/your-org/boutique-backend/internal/domain/user"
	"github.com/your-org/boutique-backend/internal/interfaces/http/routes"
	"github.com/your-org/boutique-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

type testServer struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&user.User{},
		&product.Category{}, &product.Product{}, &product.Color{}, &product.Size{}, &product.Image{},
		&delivery.Area{}, &delivery.StoreSetting{},
		&order.Order{}, &order.Item{},
	))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		App: config.AppConfig{Name: "boutique-backend"},
		JWT: config.JWTConfig{Secret: "test-secret", TokenExpiry: time.Hour},
		Security: config.SecurityConfig{
			BcryptCost: 4,
		},
		Store: config.StoreConfig{
			Names:             []string{"DDS.Piyou", "AB-Zone", "Tchingo Mima 2"},
			DeliveryCompanies: []string{"yalidine", "zr-Express"},
			DefaultCompany:    "yalidine",
			CartTTL:           24 * time.Hour,
			SubmissionWindow:  15 * time.Minute,
		},
	}

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	apiV1 := engine.Group("/api/v1")
	routes.SetupRoutes(apiV1, db, client, cfg, nil)

	return &testServer{engine: engine, db: db, cfg: cfg}
}

func (s *testServer) request(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) adminToken(t *testing.T, role user.Role) string {
	t.Helper()

	token, err := auth.NewJWTManager(s.cfg).GenerateToken(1, "admin@example.com", string(role))
	require.NoError(t, err)
	return "Bearer " + token
}

func (s *testServer) seedProduct(t *testing.T) *product.Product {
	t.Helper()

	p, err := product.NewService(s.db, s.cfg).Create(context.Background(), &product.CreateRequest{
		Name:     "Oversize Tee",
		Category: "T-Shirts",
		Price:    900,
		Colors: []product.ColorRequest{
			{Name: "Black", Value: "#000000", Sizes: []product.SizeRequest{{Size: "M", Quantity: 5}}},
		},
	})
	require.NoError(t, err)
	return p
}

func (s *testServer) seedArea(t *testing.T, wilaya string, home, desk int64) {
	t.Helper()

	_, err := delivery.NewService(s.db, s.cfg).CreateArea(context.Background(), &delivery.CreateAreaRequest{
		Wilaya:    wilaya,
		Store:     "DDS.Piyou",
		PriceHome: &home,
		PriceDesk: &desk,
	})
	require.NoError(t, err)
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

func TestPublicProductListing(t *testing.T) {
	s := newTestServer(t)
	s.seedProduct(t)

	rec := s.request(t, http.MethodGet, "/api/v1/products", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []product.Product
	decodeData(t, rec, &products)
	require.Len(t, products, 1)
	require.Equal(t, "Oversize Tee", products[0].Name)
}

func TestCartFlowWithSessionHeader(t *testing.T) {
	s := newTestServer(t)
	p := s.seedProduct(t)

	headers := map[string]string{"X-Cart-Session": "session-1"}

	rec := s.request(t, http.MethodPost, "/api/v1/cart/items", gin.H{
		"product_id": p.ID,
		"color":      "Black",
		"size":       "M",
		"quantity":   2,
	}, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.request(t, http.MethodGet, "/api/v1/cart", nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	var cartData struct {
		Items []struct {
			Name     string `json:"name"`
			Quantity int    `json:"quantity"`
			Price    int64  `json:"price"`
		} `json:"items"`
	}
	decodeData(t, rec, &cartData)
	require.Len(t, cartData.Items, 1)
	require.Equal(t, 2, cartData.Items[0].Quantity)
	require.Equal(t, int64(900), cartData.Items[0].Price)

	// Another session sees an empty cart
	rec = s.request(t, http.MethodGet, "/api/v1/cart", nil, map[string]string{"X-Cart-Session": "session-2"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &cartData)
	require.Empty(t, cartData.Items)
}

func TestCartAddRejectsOverselling(t *testing.T) {
	s := newTestServer(t)
	p := s.seedProduct(t)

	rec := s.request(t, http.MethodPost, "/api/v1/cart/items", gin.H{
		"product_id": p.ID,
		"color":      "Black",
		"size":       "M",
		"quantity":   6,
	}, map[string]string{"X-Cart-Session": "session-1"})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCartAddUnknownVariant(t *testing.T) {
	s := newTestServer(t)
	p := s.seedProduct(t)

	rec := s.request(t, http.MethodPost, "/api/v1/cart/items", gin.H{
		"product_id": p.ID,
		"color":      "Red",
		"size":       "M",
		"quantity":   1,
	}, map[string]string{"X-Cart-Session": "session-1"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderSubmissionFlow(t *testing.T) {
	s := newTestServer(t)
	p := s.seedProduct(t)
	s.seedArea(t, "Alger", 650, 400)

	headers := map[string]string{"X-Cart-Session": "session-1"}

	rec := s.request(t, http.MethodPost, "/api/v1/cart/items", gin.H{
		"product_id": p.ID,
		"color":      "Black",
		"size":       "M",
		"quantity":   2,
	}, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.request(t, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_name": "Amina B",
		"phone":         "0550123456",
		"wilaya":        "Alger",
		"address":       "12 Rue Didouche Mourad",
		"delivery_type": "home",
		"store":         "DDS.Piyou",
	}, headers)
	require.Equal(t, http.StatusCreated, rec.Code)

	var submitted struct {
		OrderID uint `json:"order_id"`
		IsBulk  bool `json:"is_bulk"`
	}
	decodeData(t, rec, &submitted)
	require.NotZero(t, submitted.OrderID)
	require.False(t, submitted.IsBulk)

	// Cart is now empty
	rec = s.request(t, http.MethodGet, "/api/v1/cart/count", nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	var count struct {
		Count int `json:"count"`
	}
	decodeData(t, rec, &count)
	require.Zero(t, count.Count)

	// And visible to the back office
	adminHeaders := map[string]string{"Authorization": s.adminToken(t, user.RoleAdmin)}
	rec = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/admin/orders/%d", submitted.OrderID), nil, adminHeaders)
	require.Equal(t, http.StatusOK, rec.Code)

	var o order.Order
	decodeData(t, rec, &o)
	require.Equal(t, order.StatusPending, o.Status)
	require.Equal(t, int64(650), o.DeliveryPrice)
	require.Equal(t, int64(2450), *o.TotalPrice)
}

func TestOrderSubmissionEmptyCart(t *testing.T) {
	s := newTestServer(t)

	rec := s.request(t, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_name": "Amina B",
		"phone":         "0550123456",
		"wilaya":        "Alger",
		"delivery_type": "desk",
		"store":         "DDS.Piyou",
	}, map[string]string{"X-Cart-Session": "session-1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)

	// No token
	rec := s.request(t, http.MethodGet, "/api/v1/admin/orders", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token
	rec = s.request(t, http.MethodGet, "/api/v1/admin/orders", nil, map[string]string{
		"Authorization": "Bearer not-a-token",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Plain user role
	rec = s.request(t, http.MethodGet, "/api/v1/admin/orders", nil, map[string]string{
		"Authorization": s.adminToken(t, user.RoleUser),
	})
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Admin role passes
	rec = s.request(t, http.MethodGet, "/api/v1/admin/orders", nil, map[string]string{
		"Authorization": s.adminToken(t, user.RoleAdmin),
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUserManagementRequiresSuperAdmin(t *testing.T) {
	s := newTestServer(t)

	rec := s.request(t, http.MethodGet, "/api/v1/admin/users", nil, map[string]string{
		"Authorization": s.adminToken(t, user.RoleAdmin),
	})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.request(t, http.MethodGet, "/api/v1/admin/users", nil, map[string]string{
		"Authorization": s.adminToken(t, user.RoleSuperAdmin),
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminStatusUpdateEndpoint(t *testing.T) {
	s := newTestServer(t)
	p := s.seedProduct(t)

	headers := map[string]string{"X-Cart-Session": "session-1"}
	rec := s.request(t, http.MethodPost, "/api/v1/cart/items", gin.H{
		"product_id": p.ID,
		"color":      "Black",
		"size":       "M",
		"quantity":   1,
	}, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.request(t, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_name": "Amina B",
		"phone":         "0550123456",
		"wilaya":        "Alger",
		"delivery_type": "desk",
		"store":         "DDS.Piyou",
	}, headers)
	require.Equal(t, http.StatusCreated, rec.Code)

	var submitted struct {
		OrderID uint `json:"order_id"`
	}
	decodeData(t, rec, &submitted)

	adminHeaders := map[string]string{"Authorization": s.adminToken(t, user.RoleAdmin)}
	statusPath := fmt.Sprintf("/api/v1/admin/orders/%d/status", submitted.OrderID)

	rec = s.request(t, http.MethodPut, statusPath, gin.H{"status": "confirmed"}, adminHeaders)
	require.Equal(t, http.StatusOK, rec.Code)

	// Skipping ahead is rejected
	rec = s.request(t, http.MethodPut, statusPath, gin.H{"status": "confirmed"}, adminHeaders)
	require.Equal(t, http.StatusOK, rec.Code) // same status is a no-op

	rec = s.request(t, http.MethodPut, statusPath, gin.H{"status": "pending"}, adminHeaders)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = s.request(t, http.MethodPut, statusPath, gin.H{"status": "shipped"}, adminHeaders)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeliveryAreasEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.seedArea(t, "Alger", 650, 400)
	s.seedArea(t, "Oran", 800, 500)

	rec := s.request(t, http.MethodGet, "/api/v1/delivery/areas?store=DDS.Piyou", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Areas         []delivery.Area `json:"areas"`
		ActiveCompany string          `json:"active_company"`
	}
	decodeData(t, rec, &data)
	require.Equal(t, "yalidine", data.ActiveCompany)
	require.Len(t, data.Areas, 2)

	rec = s.request(t, http.MethodGet, "/api/v1/delivery/areas?store=Unknown", nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
