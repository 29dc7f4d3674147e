package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	t.Run("identical coordinates give zero", func(t *testing.T) {
		d := DistanceKm(9.618485756541178, 6.5459333488767015, 9.618485756541178, 6.5459333488767015)
		assert.Zero(t, d)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := DistanceKm(9.6184, 6.5459, 9.7000, 6.6000)
		b := DistanceKm(9.7000, 6.6000, 9.6184, 6.5459)
		assert.InDelta(t, a, b, 1e-12)
	})

	t.Run("known fixture", func(t *testing.T) {
		// Lagos to Abuja, roughly 526 km great-circle
		d := DistanceKm(6.5244, 3.3792, 9.0765, 7.3986)
		assert.InDelta(t, 525.9, d, 0.5)
	})

	t.Run("small displacement crosses geofence threshold", func(t *testing.T) {
		// ~0.01 degrees of latitude is about 1.1 km
		d := DistanceKm(9.6184, 6.5459, 9.6284, 6.5459)
		assert.Greater(t, d, 0.3)
		assert.Less(t, d, 2.0)
	})
}
