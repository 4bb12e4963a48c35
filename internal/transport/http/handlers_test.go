package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ordermgmt/internal/cache"
	ordersvc "github.com/vladislavdragonenkov/ordermgmt/internal/service/order"
	"github.com/vladislavdragonenkov/ordermgmt/internal/storage/memory"
	transport "github.com/vladislavdragonenkov/ordermgmt/internal/transport/http"
)

const createBody = `{
	"customer_id": "customer-1",
	"customer_email": "c@example.com",
	"shipping_address": "Main St 1",
	"items": [
		{"product_id": "p1", "product_name": "Widget", "qty": 2, "price_minor": 5000},
		{"product_id": "p2", "product_name": "Gadget", "qty": 1, "price_minor": 5000}
	]
}`

type orderDTO struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	TotalMinor  int64  `json:"total_minor"`
	Items       []struct {
		SubtotalMinor int64 `json:"subtotal_minor"`
	} `json:"items"`
}

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()

	base := log.New()
	base.SetLevel(log.PanicLevel)
	logger := base.WithField("component", "http-test")

	svc := ordersvc.NewServiceWithoutMetrics(memory.NewOrderRepository(), cache.New(), nil, logger)
	server := transport.NewServer(svc, logger)

	e := echo.New()
	server.Register(e.Group("/api/v1/orders"))
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func createTestOrder(t *testing.T, e *echo.Echo) orderDTO {
	t.Helper()

	rec := doJSON(e, http.MethodPost, "/api/v1/orders", createBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto orderDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	return dto
}

func TestCreateOrder_Created(t *testing.T) {
	e := newTestEcho(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/orders", createBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto orderDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	require.NotEmpty(t, dto.ID)
	require.True(t, strings.HasPrefix(dto.OrderNumber, "ORD-"))
	require.Equal(t, "PENDING", dto.Status)
	require.Equal(t, int64(15000), dto.TotalMinor)
	require.Len(t, dto.Items, 2)

	require.Equal(t, "/api/v1/orders/"+dto.ID, rec.Header().Get(echo.HeaderLocation))
}

func TestCreateOrder_ValidationErrors(t *testing.T) {
	e := newTestEcho(t)

	cases := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"customer_id":`},
		{name: "no items", body: `{"customer_id":"c1","customer_email":"c@x","items":[]}`},
		{name: "zero qty", body: `{"customer_id":"c1","customer_email":"c@x","items":[{"product_id":"p1","qty":0,"price_minor":100}]}`},
		{name: "no customer", body: `{"customer_email":"c@x","items":[{"product_id":"p1","qty":1,"price_minor":100}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/api/v1/orders", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestGetOrder(t *testing.T) {
	e := newTestEcho(t)
	created := createTestOrder(t, e)

	rec := doJSON(e, http.MethodGet, "/api/v1/orders/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var dto orderDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	require.Equal(t, created.OrderNumber, dto.OrderNumber)

	rec = doJSON(e, http.MethodGet, "/api/v1/orders/number/"+created.OrderNumber, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/orders/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrders(t *testing.T) {
	e := newTestEcho(t)
	createTestOrder(t, e)
	createTestOrder(t, e)

	rec := doJSON(e, http.MethodGet, "/api/v1/orders?page=0&size=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Orders     []orderDTO `json:"orders"`
		TotalCount int64      `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Orders, 1)
	require.Equal(t, int64(2), page.TotalCount)
}

func TestListCustomerOrders(t *testing.T) {
	e := newTestEcho(t)
	createTestOrder(t, e)

	rec := doJSON(e, http.MethodGet, "/api/v1/orders/customer/customer-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Orders []orderDTO `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Orders, 1)

	rec = doJSON(e, http.MethodGet, "/api/v1/orders/customer/unknown", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Empty(t, page.Orders)
}

func TestUpdateStatus(t *testing.T) {
	e := newTestEcho(t)
	created := createTestOrder(t, e)

	rec := doJSON(e, http.MethodPatch, "/api/v1/orders/"+created.ID+"/status", `{"status":"confirmed"}`)
	require.Equal(t, http.StatusOK, rec.Code, "lowercase status must be accepted")

	var dto orderDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	require.Equal(t, "CONFIRMED", dto.Status)

	rec = doJSON(e, http.MethodPatch, "/api/v1/orders/"+created.ID+"/status", `{"status":"TELEPORTED"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPatch, "/api/v1/orders/missing/status", `{"status":"CONFIRMED"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelOrder(t *testing.T) {
	e := newTestEcho(t)
	created := createTestOrder(t, e)

	rec := doJSON(e, http.MethodDelete, "/api/v1/orders/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/orders/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var dto orderDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	require.Equal(t, "CANCELLED", dto.Status)
}

func TestCancelOrder_ConflictAfterShipment(t *testing.T) {
	e := newTestEcho(t)
	created := createTestOrder(t, e)

	rec := doJSON(e, http.MethodPatch, "/api/v1/orders/"+created.ID+"/status", `{"status":"SHIPPED"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodDelete, "/api/v1/orders/"+created.ID, "")
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Message, "SHIPPED")
}

func TestCancelOrder_NotFound(t *testing.T) {
	e := newTestEcho(t)

	rec := doJSON(e, http.MethodDelete, "/api/v1/orders/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestEcho(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/orders/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "UP", resp["status"])
}
