package services

import (
	"context"
	"errors"
	"strings"

	"attendly/internal/adapters/persistence/models"
	"attendly/internal/adapters/persistence/store"
	"attendly/internal/core/domain"
)

// PermissionService resolves whether an account may invoke a declared
// (uri, method) operation through the route-role tables.
type PermissionService struct {
	store store.Store
}

// NewPermissionService creates a new permission service
func NewPermissionService(s store.Store) *PermissionService {
	return &PermissionService{store: s}
}

// Authorize reports whether the account holds at least one role granted on
// the route. Routes are matched on lower-cased uri and upper-cased method.
// An undeclared route denies, as does a declared route with no role grants.
func (s *PermissionService) Authorize(ctx context.Context, userID uint, uri, method string) (bool, error) {
	uri = strings.ToLower(uri)
	method = strings.ToUpper(method)

	var route models.ProjectRoute
	err := s.store.FindOne(ctx, domain.EntityProjectRoute, store.Alive(
		store.Eq{Field: "uri", Value: uri},
		store.Eq{Field: "method", Value: method},
	), &route)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	var grants []models.RouteRole
	err = s.store.FindMany(ctx, domain.EntityRouteRole, store.Alive(
		store.Eq{Field: "route_id", Value: route.ID},
	), &grants)
	if err != nil {
		return false, err
	}
	if len(grants) == 0 {
		return false, nil
	}

	var held []models.UserRole
	err = s.store.FindMany(ctx, domain.EntityUserRole, store.Alive(
		store.Eq{Field: "user_id", Value: userID},
	), &held)
	if err != nil {
		return false, err
	}

	granted := make(map[uint]struct{}, len(grants))
	for _, g := range grants {
		granted[g.RoleID] = struct{}{}
	}
	for _, h := range held {
		if _, ok := granted[h.RoleID]; ok {
			return true, nil
		}
	}
	return false, nil
}
