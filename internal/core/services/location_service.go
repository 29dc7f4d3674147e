package services

import (
	"context"
	"errors"

	"attendly/internal/adapters/persistence/models"
	"attendly/internal/adapters/persistence/store"
	"attendly/internal/core/domain"
	"attendly/internal/pkg/geo"
)

// geofenceRadiusKm is the distance within which a coordinate counts as
// inside an office geofence.
const geofenceRadiusKm = 0.3

// LocationService verifies attendance coordinates against the configured
// office geofences.
type LocationService struct {
	store store.Store
}

// NewLocationService creates a new location service
func NewLocationService(s store.Store) *LocationService {
	return &LocationService{store: s}
}

// Verify checks a coordinate against the geofence of the named branch.
// Hard reasons (missing preference, unknown branch, strict-mode rejection)
// abort the attendance action; an out-of-range result under a lenient
// policy is recorded on the attendance row as a compliance flag instead.
func (s *LocationService) Verify(ctx context.Context, branch string, lat, lng float64) (domain.LocationVerdict, error) {
	var pref models.Preference
	err := s.store.FindOne(ctx, domain.EntityPreference, store.Alive(), &pref)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.LocationVerdict{ViolatesPolicy: true, Reason: domain.ReasonPreferenceMissing}, nil
		}
		return domain.LocationVerdict{}, err
	}

	office, ok := pref.FindOffice(branch)
	if !ok {
		return domain.LocationVerdict{ViolatesPolicy: true, Reason: domain.ReasonBranchNotSet}, nil
	}

	distance := geo.DistanceKm(lat, lng, office.Latitude, office.Longitude)
	if distance > geofenceRadiusKm {
		if pref.IsStrictLocation {
			return domain.LocationVerdict{ViolatesPolicy: true, Reason: domain.ReasonRestrictedLoc}, nil
		}
		return domain.LocationVerdict{ViolatesPolicy: true, Reason: domain.ReasonOutOfRange}, nil
	}
	return domain.LocationVerdict{ViolatesPolicy: false, Reason: domain.ReasonInRange}, nil
}
