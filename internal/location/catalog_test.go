package location

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fulfilment-platform/fulfilment/internal/shared"
)

func TestResolveKnownLocation(t *testing.T) {
	catalog := NewCatalog()

	loc, err := catalog.Resolve(context.Background(), "ZWOLLE-001")
	require.NoError(t, err)
	require.Equal(t, "ZWOLLE-001", loc.Identification)
	require.Equal(t, 1, loc.MaxNumberOfWarehouses)
	require.Equal(t, 40, loc.MaxCapacity)
}

func TestResolveAnotherLocation(t *testing.T) {
	catalog := NewCatalog()

	loc, err := catalog.Resolve(context.Background(), "AMSTERDAM-001")
	require.NoError(t, err)
	require.Equal(t, 5, loc.MaxNumberOfWarehouses)
	require.Equal(t, 100, loc.MaxCapacity)
}

func TestResolveUnknownLocation(t *testing.T) {
	catalog := NewCatalog()

	_, err := catalog.Resolve(context.Background(), "INVALID-999")
	require.ErrorIs(t, err, shared.ErrNotFound)
}
