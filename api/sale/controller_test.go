package sale

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appsale "github.com/dschaly/developer-store-sales-api-sub000/application/sale"
	"github.com/dschaly/developer-store-sales-api-sub000/domain/product"
	domainsale "github.com/dschaly/developer-store-sales-api-sub000/domain/sale"
	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"
	"github.com/dschaly/developer-store-sales-api-sub000/infrastructure/persistence/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	productRepo := mocks.NewMockProductRepository()
	now := time.Now()
	productRepo.Add(product.RebuildFromDTO(product.ReconstructionDTO{
		ID: "prod-001", Name: "Keyboard", UnitPrice: *shared.NewMoney(2000, "USD"),
		Active: true, CreatedAt: now, UpdatedAt: now,
	}))
	productRepo.Add(product.RebuildFromDTO(product.ReconstructionDTO{
		ID: "prod-002", Name: "Mouse", UnitPrice: *shared.NewMoney(500, "USD"),
		Active: true, CreatedAt: now, UpdatedAt: now,
	}))

	service := appsale.NewApplicationService(
		mocks.NewMockSaleRepository(),
		productRepo,
		domainsale.DefaultDiscountPolicy(),
		mocks.NewMockUnitOfWorkFactory(),
	)

	router := gin.New()
	NewController(service).RegisterRoutes(router.Group("/api/v1"))
	return router
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    int             `json:"code"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(ActorHeader, "tester")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func createBody() map[string]interface{} {
	return map[string]interface{}{
		"customer_id": "cust-1",
		"branch_id":   "branch-1",
		"items": []map[string]interface{}{
			{"product_id": "prod-001", "quantity": 5},
			{"product_id": "prod-002", "quantity": 2},
		},
	}
}

func createSale(t *testing.T, router *gin.Engine) appsale.SaleResponse {
	t.Helper()
	w, env := doJSON(t, router, http.MethodPost, "/api/v1/sales", createBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created appsale.SaleResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	return created
}

func TestCreateSaleEndpoint(t *testing.T) {
	router := newTestRouter(t)

	created := createSale(t, router)
	assert.Equal(t, "cust-1", created.CustomerID)
	assert.Equal(t, "tester", created.CreatedBy)
	assert.Equal(t, int64(10000), created.TotalAmount.Amount)
	require.Len(t, created.Items, 2)
	assert.Equal(t, int64(1000), created.Items[0].Discount.Amount)
}

func TestCreateSaleEndpointBadBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSaleEndpointOverLimit(t *testing.T) {
	router := newTestRouter(t)

	body := createBody()
	body["items"] = []map[string]interface{}{{"product_id": "prod-001", "quantity": 21}}

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/sales", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)
}

func TestGetSaleEndpoint(t *testing.T) {
	router := newTestRouter(t)
	created := createSale(t, router)

	w, env := doJSON(t, router, http.MethodGet, "/api/v1/sales/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var loaded appsale.SaleResponse
	require.NoError(t, json.Unmarshal(env.Data, &loaded))
	assert.Equal(t, created.SaleNumber, loaded.SaleNumber)
}

func TestGetSaleEndpointNotFound(t *testing.T) {
	router := newTestRouter(t)

	w, env := doJSON(t, router, http.MethodGet, "/api/v1/sales/no-such-sale", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SALE_NOT_FOUND", env.Error)
}

func TestSearchSalesEndpoint(t *testing.T) {
	router := newTestRouter(t)
	createSale(t, router)

	w, _ := doJSON(t, router, http.MethodGet, "/api/v1/sales?customer_id=cust-1&sort_by=created_at", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var paged struct {
		Data       []appsale.SaleResponse `json:"data"`
		Pagination struct {
			TotalItems int64 `json:"total_items"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &paged))
	assert.Equal(t, int64(1), paged.Pagination.TotalItems)
	require.Len(t, paged.Data, 1)
}

func TestSearchSalesEndpointUnknownSortField(t *testing.T) {
	router := newTestRouter(t)

	w, env := doJSON(t, router, http.MethodGet, "/api/v1/sales?sort_by=customer_id", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)
}

func TestCancelSaleEndpoint(t *testing.T) {
	router := newTestRouter(t)
	created := createSale(t, router)

	w, env := doJSON(t, router, http.MethodDelete, "/api/v1/sales/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cancelled appsale.SaleResponse
	require.NoError(t, json.Unmarshal(env.Data, &cancelled))
	assert.True(t, cancelled.IsCancelled)

	// Cancellation is terminal
	w, env = doJSON(t, router, http.MethodDelete, "/api/v1/sales/"+created.ID, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "SALE_ALREADY_CANCELLED", env.Error)
}

func TestCancelSaleLineEndpoint(t *testing.T) {
	router := newTestRouter(t)
	created := createSale(t, router)

	path := fmt.Sprintf("/api/v1/sales/%s/lines/%s", created.ID, created.Items[1].ID)
	w, env := doJSON(t, router, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result appsale.CancelSaleLineResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, int64(10000), result.PreviousTotal.Amount)
	assert.Equal(t, int64(9000), result.NewTotal.Amount)
	require.Len(t, result.Sale.Items, 1)
}

func TestCancelSaleLineEndpointNotFound(t *testing.T) {
	router := newTestRouter(t)
	created := createSale(t, router)

	path := fmt.Sprintf("/api/v1/sales/%s/lines/no-such-line", created.ID)
	w, env := doJSON(t, router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SALE_ITEM_NOT_FOUND", env.Error)
}

func TestCancelSaleLineEndpointWrongParent(t *testing.T) {
	router := newTestRouter(t)
	first := createSale(t, router)
	second := createSale(t, router)

	path := fmt.Sprintf("/api/v1/sales/%s/lines/%s", first.ID, second.Items[0].ID)
	w, env := doJSON(t, router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SALE_ITEM_NOT_FOUND", env.Error)
}
