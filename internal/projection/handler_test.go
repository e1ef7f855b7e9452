package projection

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/aevon-lab/stockpulse/internal/auth"
	httperr "github.com/aevon-lab/stockpulse/internal/core/errors"
	"github.com/aevon-lab/stockpulse/internal/core/inventory"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	identity, err := auth.Middleware(auth.Options{Mode: auth.ModeHeader})
	require.NoError(t, err)

	r := gin.New()
	v1 := r.Group("/", identity)
	svc.RegisterRoutes(v1)
	svc.RegisterAdminRoutes(v1.Group("/", auth.RequireClients([]string{"ops"})))
	return r
}

func doRequest(r http.Handler, method, path, clientID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if clientID != "" {
		req.Header.Set(auth.DefaultHeader, clientID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httperr.ErrorResponse {
	t.Helper()
	var body httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestService_HandleStock_StatusMapping(t *testing.T) {
	delivery := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		path           string
		clientID       string
		resolve        func(ctx context.Context, sku string) (inventory.Snapshot, error)
		expectedStatus int
		expectedType   string
		expectedBody   string
	}{
		{
			name:     "snapshot with delivery hint",
			path:     "/v1/stock/123456qwerty",
			clientID: "client-a",
			resolve: func(_ context.Context, sku string) (inventory.Snapshot, error) {
				return inventory.Snapshot{SKU: sku, StockQuantity: 0, ExpectedDeliveryDate: &delivery}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"sku":"123456qwerty","stock_quantity":0,"expected_delivery_date":"2025-03-15T00:00:00Z"}`,
		},
		{
			name:     "snapshot without delivery hint omits the field",
			path:     "/v1/stock/098765qwerty",
			clientID: "client-a",
			resolve: func(_ context.Context, sku string) (inventory.Snapshot, error) {
				return inventory.Snapshot{SKU: sku, StockQuantity: 15}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"sku":"098765qwerty","stock_quantity":15}`,
		},
		{
			name:           "missing identity returns 401",
			path:           "/v1/stock/abc",
			expectedStatus: http.StatusUnauthorized,
			expectedType:   httperr.HttpUnauthorizedError,
		},
		{
			name:           "malformed sku returns 400",
			path:           "/v1/stock/bad!sku",
			clientID:       "client-a",
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidInputError,
		},
		{
			name:     "unknown sku returns 404",
			path:     "/v1/stock/missing",
			clientID: "client-a",
			resolve: func(context.Context, string) (inventory.Snapshot, error) {
				return inventory.Snapshot{}, inventory.ErrNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedType:   httperr.HttpNotFoundError,
		},
		{
			name:     "source unavailable returns 503",
			path:     "/v1/stock/abc",
			clientID: "client-a",
			resolve: func(context.Context, string) (inventory.Snapshot, error) {
				return inventory.Snapshot{}, inventory.ErrSourceUnavailable
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedType:   httperr.HttpSourceUnavailableError,
		},
		{
			name:     "unexpected failure returns 500",
			path:     "/v1/stock/abc",
			clientID: "client-a",
			resolve: func(context.Context, string) (inventory.Snapshot, error) {
				return inventory.Snapshot{}, errors.New("scan failed")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedType:   httperr.HttpInternalError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resolver := &fakeResolver{one: tc.resolve}
			r := newTestRouter(t, newTestService(resolver, 10))

			w := doRequest(r, http.MethodGet, tc.path, tc.clientID)
			require.Equal(t, tc.expectedStatus, w.Code, w.Body.String())

			if tc.expectedBody != "" {
				require.JSONEq(t, tc.expectedBody, w.Body.String())
			}
			if tc.expectedType != "" {
				require.Equal(t, tc.expectedType, decodeError(t, w).ErrorType)
			}
		})
	}
}

func TestService_HandleStock_ClientGoneIsNotServerError(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	resolver := &fakeResolver{
		one: func(_ context.Context, sku string) (inventory.Snapshot, error) {
			<-release
			return inventory.Snapshot{SKU: sku}, nil
		},
	}
	r := newTestRouter(t, newTestService(resolver, 10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/v1/stock/abc", nil).WithContext(ctx)
	req.Header.Set(auth.DefaultHeader, "client-a")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, statusClientClosedRequest, w.Code)
	require.Empty(t, w.Body.String())
}

func TestService_HandleStock_RateLimitHeaders(t *testing.T) {
	resolver := &fakeResolver{}
	r := newTestRouter(t, newTestService(resolver, 2))

	w := doRequest(r, http.MethodGet, "/v1/stock/abc", "client-a")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	require.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))

	w = doRequest(r, http.MethodGet, "/v1/stock/abc", "client-a")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = doRequest(r, http.MethodGet, "/v1/stock/abc", "client-a")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, httperr.HttpRateLimitedError, decodeError(t, w).ErrorType)

	retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	require.Greater(t, retryAfter, 0)
	require.LessOrEqual(t, retryAfter, 60)

	require.Equal(t, int32(1), resolver.oneCalls.Load())
}

func TestService_HandleCatalog(t *testing.T) {
	resolver := &fakeResolver{
		all: func(context.Context) ([]inventory.Snapshot, error) {
			return []inventory.Snapshot{
				{SKU: "098765qwerty", StockQuantity: 15},
				{SKU: "aaa111", StockQuantity: 15},
				{SKU: "123456qwerty", StockQuantity: 0},
			}, nil
		},
	}
	r := newTestRouter(t, newTestService(resolver, 10))

	w := doRequest(r, http.MethodGet, "/v1/stock", "client-a")
	require.Equal(t, http.StatusOK, w.Code)

	var body CatalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 3, body.Count)
	require.Equal(t, "098765qwerty", body.Items[0].SKU)
	require.Equal(t, "123456qwerty", body.Items[2].SKU)
}

func TestService_HandleCatalog_EmptyIsArray(t *testing.T) {
	r := newTestRouter(t, newTestService(&fakeResolver{}, 10))

	w := doRequest(r, http.MethodGet, "/v1/stock", "client-a")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"items":[],"count":0}`, w.Body.String())
}

func TestService_HandleOutstanding(t *testing.T) {
	delivery := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	resolver := &fakeResolver{
		outstanding: func(_ context.Context, sku string) ([]inventory.OutstandingLine, error) {
			if sku != "123456qwerty" {
				return nil, inventory.ErrNotFound
			}
			return []inventory.OutstandingLine{{
				PurchaseOrderID:      10,
				Status:               inventory.StatusConfirmed,
				ExpectedDeliveryDate: delivery,
				Quantity:             20,
				Subtotal:             decimal.RequireFromString("199.90"),
			}}, nil
		},
	}
	r := newTestRouter(t, newTestService(resolver, 10))

	w := doRequest(r, http.MethodGet, "/v1/stock/123456qwerty/purchase-orders", "client-a")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{
		"sku": "123456qwerty",
		"lines": [{
			"purchase_order_id": 10,
			"status": "CONFIRMED",
			"expected_delivery_date": "2025-03-15T00:00:00Z",
			"quantity": 20,
			"subtotal": "199.9"
		}],
		"incoming_quantity": 20,
		"incoming_value": "199.9"
	}`, w.Body.String())

	w = doRequest(r, http.MethodGet, "/v1/stock/nope/purchase-orders", "client-a")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestService_HandleInvalidate(t *testing.T) {
	resolver := &fakeResolver{}
	r := newTestRouter(t, newTestService(resolver, 100))

	require.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/v1/stock/abc", "client-a").Code)
	require.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/v1/stock/abc", "client-a").Code)
	require.Equal(t, int32(1), resolver.oneCalls.Load())

	w := doRequest(r, http.MethodDelete, "/v1/cache/stock/abc", "client-a")
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, http.MethodDelete, "/v1/cache/stock/abc", "ops")
	require.Equal(t, http.StatusNoContent, w.Code)

	require.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/v1/stock/abc", "client-a").Code)
	require.Equal(t, int32(2), resolver.oneCalls.Load())

	w = doRequest(r, http.MethodDelete, "/v1/cache/stock", "ops")
	require.Equal(t, http.StatusNoContent, w.Code)

	require.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/v1/stock/abc", "client-a").Code)
	require.Equal(t, int32(3), resolver.oneCalls.Load())

	w = doRequest(r, http.MethodDelete, "/v1/cache/stock/bad!sku", "ops")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNewOutstandingResponse_Totals(t *testing.T) {
	resp := newOutstandingResponse("abc", []inventory.OutstandingLine{
		{PurchaseOrderID: 1, Quantity: 3, Subtotal: decimal.RequireFromString("10.10")},
		{PurchaseOrderID: 2, Quantity: 4, Subtotal: decimal.RequireFromString("0.20")},
	})
	require.Equal(t, int64(7), resp.IncomingQuantity)
	require.True(t, resp.IncomingValue.Equal(decimal.RequireFromString("10.30")))

	empty := newOutstandingResponse("abc", []inventory.OutstandingLine{})
	require.Equal(t, int64(0), empty.IncomingQuantity)
	require.True(t, empty.IncomingValue.IsZero())
}
