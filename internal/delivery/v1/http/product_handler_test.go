package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DRSN-tech/supply-registry/internal/clock"
	"github.com/DRSN-tech/supply-registry/internal/domain"
	"github.com/DRSN-tech/supply-registry/internal/infrastructure/noop"
	"github.com/DRSN-tech/supply-registry/internal/registry"
	"github.com/DRSN-tech/supply-registry/internal/usecase"
	"github.com/DRSN-tech/supply-registry/pkg/e"
	"github.com/DRSN-tech/supply-registry/pkg/logger"
	"github.com/DRSN-tech/supply-registry/pkg/opt"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const startNs = uint64(1_700_000_000_000_000_000)

func newTestRouter(t *testing.T, uc usecase.ProductUC) (http.Handler, *clock.FakeClock) {
	t.Helper()

	clk := clock.NewFakeClock(time.Unix(0, int64(startNs)))
	if uc == nil {
		reg := registry.New(clk)
		uc = usecase.NewProductUC(reg, noop.CacheRepo{}, noop.Producer{}, clk, logger.NewNop())
	}

	r := chi.NewRouter()
	NewRouter(r, logger.NewNop()).Init(uc)

	return r, clk
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func productBody(name string) map[string]any {
	return map[string]any{
		"status":           "created",
		"name":             name,
		"origin":           "Factory A",
		"current_location": "Factory A",
	}
}

func decodeProduct(t *testing.T, rec *httptest.ResponseRecorder) ProductResponse {
	t.Helper()

	var res ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (ErrorResponse, map[string]any) {
	t.Helper()

	var res ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	return res, raw
}

func TestProductHandler_WidgetLifecycle(t *testing.T) {
	h, clk := newTestRouter(t, nil)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/products/", map[string]any{
		"status":           "created",
		"name":             "Widget",
		"origin":           "Factory A",
		"current_location": "Factory A",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeProduct(t, rec)
	assert.Equal(t, uint64(1), created.ID)
	assert.Equal(t, startNs, created.Timestamp)
	assert.True(t, created.Certification.IsNone())
	assert.True(t, created.IoTData.IsNone())
	assert.True(t, created.LastUpdate.IsNone())

	rec = doRequest(t, h, http.MethodGet, "/api/v1/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decodeProduct(t, rec))

	clk.Advance(time.Second)
	rec = doRequest(t, h, http.MethodPut, "/api/v1/products/1", map[string]any{
		"status":           "in_transit",
		"name":             "Widget",
		"origin":           "Factory A",
		"current_location": "Port B",
		"certification":    "ISO 9001",
		"iot_data":         "",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decodeProduct(t, rec)
	assert.Equal(t, "in_transit", updated.Status)
	assert.Equal(t, "Port B", updated.CurrentLocation)
	assert.Equal(t, opt.Some("ISO 9001"), updated.Certification)
	assert.Equal(t, opt.Some(""), updated.IoTData)
	assert.Equal(t, startNs, updated.Timestamp)
	assert.Equal(t, opt.Some(startNs+uint64(time.Second)), updated.LastUpdate)

	rec = doRequest(t, h, http.MethodDelete, "/api/v1/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, updated, decodeProduct(t, rec))

	rec = doRequest(t, h, http.MethodGet, "/api/v1/products/1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	errRes, raw := decodeError(t, rec)
	assert.Equal(t, http.StatusNotFound, errRes.Code)
	assert.Equal(t, "a product with id=1 not found", errRes.Message)
	assert.Equal(t, map[string]any{
		"NotFound": map[string]any{"msg": "a product with id=1 not found"},
	}, raw["error"])

	rec = doRequest(t, h, http.MethodDelete, "/api/v1/products/1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	errRes, _ = decodeError(t, rec)
	assert.Equal(t, "couldn't delete a product with id=1. product not found", errRes.Message)

	// удалённый id не переиспользуется
	rec = doRequest(t, h, http.MethodPost, "/api/v1/products/", productBody("Gadget"))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint64(2), decodeProduct(t, rec).ID)
}

func TestProductHandler_UpdateUnknown(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := doRequest(t, h, http.MethodPut, "/api/v1/products/42", productBody("Widget"))
	require.Equal(t, http.StatusNotFound, rec.Code)

	errRes, _ := decodeError(t, rec)
	assert.Equal(t, "couldn't update a product with id=42. product not found", errRes.Message)
}

func TestProductHandler_List(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	for _, name := range []string{"A", "B", "C"} {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/products/", productBody(name))
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	require.Equal(t, http.StatusOK, doRequest(t, h, http.MethodDelete, "/api/v1/products/2", nil).Code)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/products/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list ProductListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Products, 2)
	assert.Equal(t, uint64(1), list.Products[0].ID)
	assert.Equal(t, uint64(3), list.Products[1].ID)
}

func TestProductHandler_EmptyListIsArray(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/products/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"products":[]}`, rec.Body.String())
}

func TestProductHandler_BadRequests(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	tests := []struct {
		name    string
		method  string
		path    string
		body    any
		message string
	}{
		{"non-numeric id", http.MethodGet, "/api/v1/products/abc", nil, e.ErrInvalidProductID.Error()},
		{"negative id", http.MethodDelete, "/api/v1/products/-1", nil, e.ErrInvalidProductID.Error()},
		{"id overflow", http.MethodGet, "/api/v1/products/18446744073709551616", nil, e.ErrInvalidProductID.Error()},
		{"malformed json", http.MethodPost, "/api/v1/products/", `{"name":`, e.ErrInvalidBody.Error()},
		{"unknown field", http.MethodPost, "/api/v1/products/", `{"name":"Widget","price":10}`, e.ErrInvalidBody.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			errRes, raw := decodeError(t, rec)
			assert.Equal(t, tt.message, errRes.Message)
			assert.NotContains(t, raw, "error")
		})
	}
}

func TestProductHandler_InvalidInput(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	require.Equal(t, http.StatusCreated, doRequest(t, h, http.MethodPost, "/api/v1/products/", productBody("Widget")).Code)

	tests := []struct {
		name    string
		method  string
		path    string
		field   string
		value   string
		message string
	}{
		{"blank name", http.MethodPost, "/api/v1/products/", "name", "   ", "Product name cannot be empty"},
		{"blank origin", http.MethodPost, "/api/v1/products/", "origin", "", "Product origin cannot be empty"},
		{"blank location", http.MethodPost, "/api/v1/products/", "current_location", "\t", "Current location cannot be empty"},
		{"blank status", http.MethodPost, "/api/v1/products/", "status", " ", "Status cannot be empty"},
		{"blank name on update", http.MethodPut, "/api/v1/products/1", "name", "", "Product name cannot be empty"},
		{"blank status on update", http.MethodPut, "/api/v1/products/1", "status", "", "Status cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := productBody("Widget")
			body[tt.field] = tt.value

			rec := doRequest(t, h, tt.method, tt.path, body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			errRes, raw := decodeError(t, rec)
			assert.Equal(t, tt.message, errRes.Message)
			assert.Equal(t, map[string]any{
				"InvalidInput": map[string]any{"msg": tt.message},
			}, raw["error"])
		})
	}

	// отклонённое обновление не меняет товар
	rec := doRequest(t, h, http.MethodGet, "/api/v1/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeProduct(t, rec)
	assert.Equal(t, "Widget", got.Name)
	assert.True(t, got.LastUpdate.IsNone())
}

func TestProductHandler_MaxIDIsAccepted(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/products/18446744073709551615", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	errRes, _ := decodeError(t, rec)
	assert.Equal(t, "a product with id=18446744073709551615 not found", errRes.Message)
}

type failingUC struct {
	usecase.ProductUC
	err error
}

func (f failingUC) AddProduct(context.Context, domain.ProductPayload) (*domain.Product, error) {
	return nil, f.err
}

func (f failingUC) ListProducts(context.Context) ([]domain.Product, error) {
	return nil, f.err
}

func TestProductHandler_ServerErrors(t *testing.T) {
	h, _ := newTestRouter(t, failingUC{err: e.Wrap("ProductUseCase.AddProduct", e.ErrIDSpaceExhausted)})
	rec := doRequest(t, h, http.MethodPost, "/api/v1/products/", productBody("Widget"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h, _ = newTestRouter(t, failingUC{err: errors.New("boom")})
	rec = doRequest(t, h, http.MethodGet, "/api/v1/products/", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	errRes, _ := decodeError(t, rec)
	assert.Equal(t, e.ErrInternalServerError.Error(), errRes.Message)
}
