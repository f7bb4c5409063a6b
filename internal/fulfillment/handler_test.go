package fulfillment

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), newTestEngine(&memoryRepo{}), nil)
	r := chi.NewRouter()
	r.Route("/fulfillment", handler.MountRoutes)
	return r
}

func do(t *testing.T, router http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestAssociateEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/fulfillment/warehouse/MWH.001/product/1/store/1")
	require.Equal(t, http.StatusCreated, rec.Code)

	var a Association
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	require.Equal(t, "MWH.001", a.WarehouseBusinessUnitCode)
	require.Equal(t, int64(1), a.ProductID)
	require.Equal(t, int64(1), a.StoreID)
}

func TestAssociateEndpointRejectsBadID(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/fulfillment/warehouse/MWH.001/product/abc/store/1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssociateEndpointUnknownWarehouse(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/fulfillment/warehouse/MWH.404/product/1/store/1")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssociateEndpointConstraintViolation(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/fulfillment/warehouse/MWH.001/product/1/store/1")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, router, http.MethodPost, "/fulfillment/warehouse/MWH.012/product/1/store/1")
	require.Equal(t, http.StatusCreated, rec.Code)

	// A third warehouse for the same product and store exceeds the pair limit.
	rec = do(t, router, http.MethodPost, "/fulfillment/warehouse/MWH.023/product/1/store/1")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListByWarehouseEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/fulfillment/warehouse/MWH.001/product/1/store/1")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodGet, "/fulfillment/warehouse/MWH.001")
	require.Equal(t, http.StatusOK, rec.Code)

	var out []Association
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
}

func TestListByProductAndStoreEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/fulfillment/warehouse/MWH.001/product/1/store/1")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, router, http.MethodPost, "/fulfillment/warehouse/MWH.001/product/2/store/1")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodGet, "/fulfillment/product/1/store/1")
	require.Equal(t, http.StatusOK, rec.Code)

	var out []Association
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
}
