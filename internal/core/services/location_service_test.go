package services

import (
	"context"
	"testing"

	"attendly/internal/adapters/persistence/models"
	"attendly/internal/adapters/persistence/store"
	"attendly/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	minnaLat = 9.618485756541178
	minnaLng = 6.5459333488767015
)

func seedPreference(t *testing.T, mem *store.Memory, strict bool) {
	t.Helper()
	err := mem.Create(context.Background(), domain.EntityPreference, &models.Preference{
		OfficeLocations: []models.OfficeLocation{
			{QRToken: "qr-minna", Branch: "Minna", Latitude: minnaLat, Longitude: minnaLng},
		},
		IsStrictLocation: strict,
		IsActive:         true,
	})
	require.NoError(t, err)
}

func TestLocationService_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("missing preference is a hard rejection", func(t *testing.T) {
		svc := NewLocationService(store.NewMemory())
		verdict, err := svc.Verify(ctx, "Minna", minnaLat, minnaLng)
		require.NoError(t, err)
		assert.Equal(t, domain.ReasonPreferenceMissing, verdict.Reason)
		assert.True(t, verdict.Reason.Hard())
	})

	t.Run("unknown branch is a hard rejection", func(t *testing.T) {
		mem := store.NewMemory()
		seedPreference(t, mem, true)
		svc := NewLocationService(mem)

		verdict, err := svc.Verify(ctx, "Abuja", minnaLat, minnaLng)
		require.NoError(t, err)
		assert.Equal(t, domain.ReasonBranchNotSet, verdict.Reason)
		assert.True(t, verdict.Reason.Hard())
	})

	t.Run("inside geofence passes", func(t *testing.T) {
		mem := store.NewMemory()
		seedPreference(t, mem, true)
		svc := NewLocationService(mem)

		verdict, err := svc.Verify(ctx, "Minna", minnaLat+0.0001, minnaLng)
		require.NoError(t, err)
		assert.Equal(t, domain.ReasonInRange, verdict.Reason)
		assert.False(t, verdict.ViolatesPolicy)
	})

	t.Run("out of range under strict policy is blocked", func(t *testing.T) {
		mem := store.NewMemory()
		seedPreference(t, mem, true)
		svc := NewLocationService(mem)

		// ~1.1 km north of the office
		verdict, err := svc.Verify(ctx, "Minna", minnaLat+0.01, minnaLng)
		require.NoError(t, err)
		assert.Equal(t, domain.ReasonRestrictedLoc, verdict.Reason)
		assert.True(t, verdict.Reason.Hard())
	})

	t.Run("out of range under lenient policy is advisory", func(t *testing.T) {
		mem := store.NewMemory()
		seedPreference(t, mem, false)
		svc := NewLocationService(mem)

		verdict, err := svc.Verify(ctx, "Minna", minnaLat+0.01, minnaLng)
		require.NoError(t, err)
		assert.Equal(t, domain.ReasonOutOfRange, verdict.Reason)
		assert.False(t, verdict.Reason.Hard())
		assert.True(t, verdict.ViolatesPolicy)
	})
}
