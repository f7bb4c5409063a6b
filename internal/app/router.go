package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fulfilment-platform/fulfilment/internal/fulfillment"
	"github.com/fulfilment-platform/fulfilment/internal/observability"
	"github.com/fulfilment-platform/fulfilment/internal/product"
	"github.com/fulfilment-platform/fulfilment/internal/store"
	"github.com/fulfilment-platform/fulfilment/internal/warehouse"
	"github.com/fulfilment-platform/fulfilment/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	WarehouseHandler   *warehouse.Handler
	FulfillmentHandler *fulfillment.Handler
	ProductHandler     *product.Handler
	StoreHandler       *store.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/warehouse", params.WarehouseHandler.MountRoutes)
	r.Route("/fulfillment", params.FulfillmentHandler.MountRoutes)
	if params.ProductHandler != nil {
		r.Route("/product", params.ProductHandler.MountRoutes)
	}
	if params.StoreHandler != nil {
		r.Route("/store", params.StoreHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
