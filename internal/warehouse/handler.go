package warehouse

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fulfilment-platform/fulfilment/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the warehouse module.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs warehouse handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers warehouse routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{code}", h.get)
	r.Delete("/{code}", h.archive)
	r.Put("/{code}", h.replace)
}

type warehouseRequest struct {
	BusinessUnitCode string `json:"businessUnitCode" validate:"required"`
	Location         string `json:"location" validate:"required"`
	Capacity         int    `json:"capacity" validate:"gte=0"`
	Stock            int    `json:"stock" validate:"gte=0"`
}

type warehouseResponse struct {
	BusinessUnitCode string     `json:"businessUnitCode"`
	Location         string     `json:"location"`
	Capacity         int        `json:"capacity"`
	Stock            int        `json:"stock"`
	CreatedAt        time.Time  `json:"createdAt"`
	ArchivedAt       *time.Time `json:"archivedAt,omitempty"`
}

func toResponse(w Warehouse) warehouseResponse {
	return warehouseResponse{
		BusinessUnitCode: w.BusinessUnitCode,
		Location:         w.Location,
		Capacity:         w.Capacity,
		Stock:            w.Stock,
		CreatedAt:        w.CreatedAt,
		ArchivedAt:       w.ArchivedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list warehouses", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	out := make([]warehouseResponse, 0, len(warehouses))
	for _, wh := range warehouses {
		out = append(out, toResponse(wh))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), Warehouse{
		BusinessUnitCode: req.BusinessUnitCode,
		Location:         req.Location,
		Capacity:         req.Capacity,
		Stock:            req.Stock,
	})
	if err != nil {
		h.logger.Warn("create warehouse rejected", slog.String("code", req.BusinessUnitCode), slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(created))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(found))
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := h.service.Archive(r.Context(), code); err != nil {
		h.logger.Warn("archive warehouse failed", slog.String("code", code), slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) replace(w http.ResponseWriter, r *http.Request) {
	// The path owns the code; the body may omit or repeat it.
	code := chi.URLParam(r, "code")
	var req warehouseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return
	}
	req.BusinessUnitCode = code
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	created, err := h.service.Replace(r.Context(), Warehouse{
		BusinessUnitCode: code,
		Location:         req.Location,
		Capacity:         req.Capacity,
		Stock:            req.Stock,
	})
	if err != nil {
		h.logger.Warn("replace warehouse rejected", slog.String("code", code), slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(created))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (warehouseRequest, bool) {
	var req warehouseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return warehouseRequest{}, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return warehouseRequest{}, false
	}
	return req, true
}
