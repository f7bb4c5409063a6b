package fulfillment

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fulfilment-platform/fulfilment/internal/platform/httpx"
	"github.com/fulfilment-platform/fulfilment/internal/shared"
)

// Handler wires HTTP endpoints for the fulfillment module.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	idempotency *shared.IdempotencyStore
}

// NewHandler constructs fulfillment handler. idempotency may be nil, which
// disables Idempotency-Key support.
func NewHandler(logger *slog.Logger, service *Service, idempotency *shared.IdempotencyStore) *Handler {
	return &Handler{logger: logger, service: service, idempotency: idempotency}
}

// MountRoutes registers fulfillment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/warehouse/{code}/product/{productID}/store/{storeID}", h.associate)
	r.Get("/warehouse/{code}", h.listByWarehouse)
	r.Get("/store/{storeID}", h.listByStore)
	r.Get("/product/{productID}/store/{storeID}", h.listByProductAndStore)
}

func (h *Handler) associate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	productID, ok := h.parseID(w, r, "productID", "product")
	if !ok {
		return
	}
	storeID, ok := h.parseID(w, r, "storeID", "store")
	if !ok {
		return
	}

	idemKey := r.Header.Get("Idempotency-Key")
	if idemKey != "" && h.idempotency != nil {
		if err := h.idempotency.CheckAndInsert(r.Context(), idemKey, "fulfillment"); err != nil {
			httpx.Error(w, err)
			return
		}
	}

	association, err := h.service.Associate(r.Context(), code, productID, storeID)
	if err != nil {
		if idemKey != "" && h.idempotency != nil {
			// Release the key so the caller may retry after fixing the request.
			if delErr := h.idempotency.Delete(r.Context(), idemKey); delErr != nil {
				h.logger.Error("idempotency rollback", slog.Any("error", delErr))
			}
		}
		h.logger.Warn("associate rejected",
			slog.String("warehouse", code),
			slog.Int64("product", productID),
			slog.Int64("store", storeID),
			slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, association)
}

func (h *Handler) listByWarehouse(w http.ResponseWriter, r *http.Request) {
	associations, err := h.service.ListByWarehouse(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, associations)
}

func (h *Handler) listByStore(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.parseID(w, r, "storeID", "store")
	if !ok {
		return
	}
	associations, err := h.service.ListByStore(r.Context(), storeID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, associations)
}

func (h *Handler) listByProductAndStore(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.parseID(w, r, "productID", "product")
	if !ok {
		return
	}
	storeID, ok := h.parseID(w, r, "storeID", "store")
	if !ok {
		return
	}
	associations, err := h.service.ListByProductAndStore(r.Context(), productID, storeID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, associations)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request, param, resource string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid "+resource+" id")
		return 0, false
	}
	return id, true
}
