package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fulfilment-platform/fulfilment/internal/shared"
)

type memoryRepo struct {
	stores map[int64]Store
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{stores: make(map[int64]Store)}
}

func (r *memoryRepo) List(context.Context) ([]Store, error) {
	out := make([]Store, 0, len(r.stores))
	for _, s := range r.stores {
		out = append(out, s)
	}
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, id int64) (Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return Store{}, fmt.Errorf("store %d: %w", id, shared.ErrNotFound)
	}
	return s, nil
}

func (r *memoryRepo) Create(_ context.Context, s Store) (Store, error) {
	r.nextID++
	s.ID = r.nextID
	r.stores[s.ID] = s
	return s, nil
}

func (r *memoryRepo) Update(_ context.Context, s Store) error {
	if _, ok := r.stores[s.ID]; !ok {
		return fmt.Errorf("store %d: %w", s.ID, shared.ErrNotFound)
	}
	r.stores[s.ID] = s
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.stores[id]; !ok {
		return fmt.Errorf("store %d: %w", id, shared.ErrNotFound)
	}
	delete(r.stores, id)
	return nil
}

type recordingNotifier struct {
	created []Store
	updated []Store
	err     error
}

func (n *recordingNotifier) NotifyCreated(_ context.Context, s Store) error {
	n.created = append(n.created, s)
	return n.err
}

func (n *recordingNotifier) NotifyUpdated(_ context.Context, s Store) error {
	n.updated = append(n.updated, s)
	return n.err
}

func newTestService(repo *memoryRepo, notifier LegacyNotifier) *Service {
	return NewService(repo, notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateNotifiesLegacyAfterPersist(t *testing.T) {
	repo := newMemoryRepo()
	notifier := &recordingNotifier{}
	svc := newTestService(repo, notifier)

	created, err := svc.Create(context.Background(), Store{Name: "TONSTAD_STORE", QuantityProductsInStock: 10})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	require.Len(t, notifier.created, 1)
	require.Equal(t, created.ID, notifier.created[0].ID, "notification carries the persisted id")
}

func TestCreateInvalidDoesNotNotify(t *testing.T) {
	repo := newMemoryRepo()
	notifier := &recordingNotifier{}
	svc := newTestService(repo, notifier)

	_, err := svc.Create(context.Background(), Store{Name: "  "})
	require.ErrorIs(t, err, shared.ErrInvalidArgument)
	require.Empty(t, notifier.created)
	require.Empty(t, repo.stores)
}

func TestCreateSucceedsWhenLegacyNotifyFails(t *testing.T) {
	repo := newMemoryRepo()
	notifier := &recordingNotifier{err: errors.New("queue down")}
	svc := newTestService(repo, notifier)

	created, err := svc.Create(context.Background(), Store{Name: "UTRECHT-001"})
	require.NoError(t, err, "legacy sync failure must not fail the request")
	require.Contains(t, repo.stores, created.ID)
}

func TestUpdatePreservesCreatedAtAndNotifies(t *testing.T) {
	repo := newMemoryRepo()
	notifier := &recordingNotifier{}
	svc := newTestService(repo, notifier)

	created, err := svc.Create(context.Background(), Store{Name: "UTRECHT-001", QuantityProductsInStock: 5})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), Store{ID: created.ID, Name: "UTRECHT-001", QuantityProductsInStock: 8})
	require.NoError(t, err)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.Equal(t, 8, updated.QuantityProductsInStock)
	require.Len(t, notifier.updated, 1)
}

func TestUpdateUnknownStore(t *testing.T) {
	svc := newTestService(newMemoryRepo(), &recordingNotifier{})

	_, err := svc.Update(context.Background(), Store{ID: 42, Name: "GHOST"})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceWithoutNotifier(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, nil)

	_, err := svc.Create(context.Background(), Store{Name: "EINDHOVEN-001"})
	require.NoError(t, err)
}
