package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/api/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/store/memory"
)

type apiTest struct {
	router *gin.Engine
	st     *memory.Store
	user   models.User
	admin  models.User
}

func newAPITest(t *testing.T) *apiTest {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := memory.New()
	user := st.SeedUser(models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleCustomer})
	admin := st.SeedUser(models.User{Username: "root", Email: "root@example.com", Role: models.RoleAdmin})

	productHandler := NewProductHandler(services.NewProductService(st))
	cartHandler := NewCartHandler(services.NewCartService(st))
	orderHandler := NewOrderHandler(services.NewOrderService(st))
	addressHandler := NewAddressHandler(services.NewAddressService(st))

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Identity())

	api := router.Group("/api")
	api.GET("/products", productHandler.ListProducts)
	api.GET("/products/:id", productHandler.GetProduct)

	auth := api.Group("", middleware.RequireAuth())
	auth.GET("/cart", cartHandler.GetCart)
	auth.POST("/cart/items", cartHandler.AddItem)
	auth.POST("/orders", orderHandler.PlaceOrder)
	auth.GET("/orders/:id", orderHandler.GetOrder)
	auth.POST("/addresses", addressHandler.CreateAddress)

	adminGroup := api.Group("", middleware.RequireAuth(), middleware.RequireAdmin())
	adminGroup.POST("/products", productHandler.CreateProduct)
	adminGroup.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)

	return &apiTest{router: router, st: st, user: user, admin: admin}
}

func (a *apiTest) do(t *testing.T, method, path string, body any, actor *models.User) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req.Header.Set("X-User-ID", fmt.Sprint(actor.ID))
		req.Header.Set("X-User-Role", actor.Role)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func errKindOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Kind
}

func TestAnonymousRequestsRejected(t *testing.T) {
	a := newAPITest(t)

	rec := a.do(t, http.MethodGet, "/api/cart", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, models.KindUnauthorized, errKindOf(t, rec))

	// Catalog stays public.
	rec = a.do(t, http.MethodGet, "/api/products", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoutesRejectCustomers(t *testing.T) {
	a := newAPITest(t)

	rec := a.do(t, http.MethodPost, "/api/products", gin.H{"name": "Mug", "base_price": "10.00"}, &a.user)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, models.KindForbidden, errKindOf(t, rec))

	rec = a.do(t, http.MethodPost, "/api/products", gin.H{"name": "Mug", "base_price": "10.00"}, &a.admin)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCheckoutOverHTTP(t *testing.T) {
	a := newAPITest(t)
	ctx := context.Background()

	product := &models.Product{Name: "Mug", BasePrice: decimal.RequireFromString("10.00"), Stock: 10}
	require.NoError(t, a.st.CreateProduct(ctx, product))

	rec := a.do(t, http.MethodPost, "/api/addresses", gin.H{
		"street": "1 Main St", "city": "Springfield", "country": "US",
	}, &a.user)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Data models.Address `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = a.do(t, http.MethodPost, "/api/cart/items", gin.H{"product_id": product.ID, "quantity": 2}, &a.user)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/orders", gin.H{"address_id": created.Data.ID}, &a.user)
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed struct {
		Data models.PlaceOrderResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	assert.Equal(t, 1, placed.Data.ItemsCount)
	assert.Equal(t, models.OrderStatusPending, placed.Data.Order.Status)

	// Empty cart now: placing again reports the empty_cart kind.
	rec = a.do(t, http.MethodPost, "/api/orders", gin.H{"address_id": created.Data.ID}, &a.user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.KindEmptyCart, errKindOf(t, rec))
}

func TestErrorKindsMapToStatuses(t *testing.T) {
	a := newAPITest(t)
	ctx := context.Background()

	product := &models.Product{Name: "Vase", BasePrice: decimal.RequireFromString("30.00"), Stock: 1}
	require.NoError(t, a.st.CreateProduct(ctx, product))

	// not_found -> 404
	rec := a.do(t, http.MethodGet, "/api/products/9999", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, models.KindNotFound, errKindOf(t, rec))

	// insufficient_stock -> 409
	rec = a.do(t, http.MethodPost, "/api/cart/items", gin.H{"product_id": product.ID, "quantity": 5}, &a.user)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, models.KindInsufficientStock, errKindOf(t, rec))

	// binding failure -> 400 validation
	rec = a.do(t, http.MethodPost, "/api/cart/items", gin.H{"quantity": 1}, &a.user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.KindValidation, errKindOf(t, rec))

	// forbidden -> 403 for another user's order
	rec = a.do(t, http.MethodPost, "/api/addresses", gin.H{"street": "1 Main St", "city": "X", "country": "US"}, &a.user)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Data models.Address `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = a.do(t, http.MethodPost, "/api/cart/items", gin.H{"product_id": product.ID, "quantity": 1}, &a.user)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = a.do(t, http.MethodPost, "/api/orders", gin.H{"address_id": created.Data.ID}, &a.user)
	require.Equal(t, http.StatusCreated, rec.Code)
	var placed struct {
		Data models.PlaceOrderResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))

	bob := a.st.SeedUser(models.User{Username: "bob", Email: "bob@example.com", Role: models.RoleCustomer})
	rec = a.do(t, http.MethodGet, fmt.Sprintf("/api/orders/%d", placed.Data.Order.ID), nil, &bob)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, models.KindForbidden, errKindOf(t, rec))
}

func TestRequestIDEchoed(t *testing.T) {
	a := newAPITest(t)

	rec := a.do(t, http.MethodGet, "/api/products", nil, nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec = httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}
