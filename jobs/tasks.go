// Package jobs defines the background tasks that keep the legacy store
// manager in sync, plus the Asynq worker that processes them.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/fulfilment-platform/fulfilment/internal/legacy"
	"github.com/fulfilment-platform/fulfilment/internal/store"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStoreLegacySync mirrors a single store change to the legacy system.
	TaskStoreLegacySync = "store:legacy-sync"
	// TaskStoreLegacyReconcile re-pushes every store, repairing missed syncs.
	TaskStoreLegacyReconcile = "store:legacy-reconcile"
)

// StoreLegacySyncPayload describes one store change to mirror.
type StoreLegacySyncPayload struct {
	Event                   string `json:"event"`
	StoreID                 int64  `json:"storeId"`
	Name                    string `json:"name"`
	QuantityProductsInStock int    `json:"quantityProductsInStock"`
}

// NewStoreLegacySyncTask constructs an Asynq task for one store change.
func NewStoreLegacySyncTask(payload StoreLegacySyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStoreLegacySync, data), nil
}

// NewStoreLegacyReconcileTask constructs the periodic reconcile task.
func NewStoreLegacyReconcileTask() *asynq.Task {
	return asynq.NewTask(TaskStoreLegacyReconcile, nil)
}

// StoreSyncer pushes store snapshots to the legacy system.
type StoreSyncer interface {
	Sync(ctx context.Context, event string, snapshot legacy.StoreSnapshot) error
}

// StoreLister loads stores for reconciliation runs.
type StoreLister interface {
	List(ctx context.Context) ([]store.Store, error)
}

// NewStoreLegacySyncHandler processes TaskStoreLegacySync tasks.
func NewStoreLegacySyncHandler(syncer StoreSyncer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload StoreLegacySyncPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error("legacy sync payload", slog.Any("error", err))
			return asynq.SkipRetry
		}
		err := syncer.Sync(ctx, payload.Event, legacy.StoreSnapshot{
			ID:                      payload.StoreID,
			Name:                    payload.Name,
			QuantityProductsInStock: payload.QuantityProductsInStock,
		})
		if err != nil {
			logger.Warn("legacy sync",
				slog.Int64("store_id", payload.StoreID),
				slog.String("event", payload.Event),
				slog.Any("error", err))
			return err
		}
		return nil
	}
}

// NewStoreLegacyReconcileHandler processes TaskStoreLegacyReconcile tasks by
// re-pushing the current state of every store. Individual failures are logged
// and the run keeps going; Sync is idempotent so retried stores are harmless.
func NewStoreLegacyReconcileHandler(stores StoreLister, syncer StoreSyncer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		all, err := stores.List(ctx)
		if err != nil {
			return err
		}
		failed := 0
		for _, st := range all {
			err := syncer.Sync(ctx, legacy.EventUpdated, legacy.StoreSnapshot{
				ID:                      st.ID,
				Name:                    st.Name,
				QuantityProductsInStock: st.QuantityProductsInStock,
			})
			if err != nil {
				failed++
				logger.Warn("legacy reconcile", slog.Int64("store_id", st.ID), slog.Any("error", err))
			}
		}
		logger.Info("legacy reconcile done", slog.Int("stores", len(all)), slog.Int("failed", failed))
		return nil
	}
}
