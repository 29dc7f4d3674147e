package services

import (
	"context"

	"attendly/internal/adapters/persistence/store"
	"attendly/internal/core/domain"
)

// edge declares that child rows reference the parent entity through one or
// more foreign-key columns.
type edge struct {
	child  domain.Entity
	fields []string
}

// dependents is the dependency graph walked by every cascade. Entities
// absent from the map have no children: the operation applies to their own
// rows directly.
var dependents = map[domain.Entity][]edge{
	domain.EntityUser: {
		{child: domain.EntityOrganisation, fields: []string{"added_by", "updated_by"}},
		{child: domain.EntityPreference, fields: []string{"added_by", "updated_by"}},
		{child: domain.EntityAttendance, fields: []string{"added_by", "updated_by"}},
		{child: domain.EntityEmployee, fields: []string{"added_by", "updated_by"}},
		{child: domain.EntityUser, fields: []string{"added_by", "updated_by"}},
		{child: domain.EntityUserToken, fields: []string{"user_id", "added_by", "updated_by"}},
		{child: domain.EntityRole, fields: []string{"added_by", "updated_by"}},
		{child: domain.EntityProjectRoute, fields: []string{"added_by", "updated_by"}},
		{child: domain.EntityRouteRole, fields: []string{"added_by", "updated_by"}},
		{child: domain.EntityUserRole, fields: []string{"user_id", "added_by", "updated_by"}},
	},
	domain.EntityEmployee: {
		{child: domain.EntityAttendance, fields: []string{"employee_id"}},
	},
	domain.EntityRole: {
		{child: domain.EntityRouteRole, fields: []string{"role_id"}},
		{child: domain.EntityUserRole, fields: []string{"role_id"}},
	},
	domain.EntityProjectRoute: {
		{child: domain.EntityRouteRole, fields: []string{"route_id"}},
	},
}

// CascadeService resolves delete, soft-delete and count operations across
// the entity dependency graph.
type CascadeService struct {
	store store.Store
}

// NewCascadeService creates a new cascade service
func NewCascadeService(s store.Store) *CascadeService {
	return &CascadeService{store: s}
}

// Cascade runs op for the root rows matching filter and for every
// dependent row that references them, and returns per-entity affected
// counts keyed by entity name.
//
// For delete and soft-delete the root rows are handled after the
// children, so a failure part-way never leaves orphans pointing at a
// removed parent. Count never touches rows at all: it reports what a
// delete would affect.
func (s *CascadeService) Cascade(ctx context.Context, op domain.CascadeOp, root domain.Entity, filter store.Cond, updatedBy *uint) (map[domain.Entity]int64, error) {
	edges, ok := dependents[root]
	if !ok {
		// No children: the operation applies to the matched rows directly.
		n, err := s.apply(ctx, op, root, filter, updatedBy)
		if err != nil {
			return nil, err
		}
		return map[domain.Entity]int64{root: n}, nil
	}

	ids, err := s.store.FindIDs(ctx, root, filter)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return map[domain.Entity]int64{root: 0}, nil
	}

	result := make(map[domain.Entity]int64)
	for _, e := range edges {
		var branches store.Or
		for _, field := range e.fields {
			branches = append(branches, store.InIDs(field, ids))
		}
		n, err := s.apply(ctx, op, e.child, branches, updatedBy)
		if err != nil {
			return nil, err
		}
		if prev, seen := result[e.child]; seen {
			result[e.child] = prev + n
		} else {
			result[e.child] = n
		}
	}

	if op == domain.CascadeCount {
		// Root rows are the subjects of the count, not dependents of it.
		return result, nil
	}

	rootFilter := store.InIDs("id", ids)
	n, err := s.apply(ctx, op, root, rootFilter, updatedBy)
	if err != nil {
		return nil, err
	}
	// A self-referencing entity has already accumulated a count for the
	// root key; the root rows themselves add to it.
	if prev, seen := result[root]; seen {
		result[root] = prev + n
	} else {
		result[root] = n
	}
	return result, nil
}

func (s *CascadeService) apply(ctx context.Context, op domain.CascadeOp, entity domain.Entity, filter store.Cond, updatedBy *uint) (int64, error) {
	switch op {
	case domain.CascadeCount:
		return s.store.Count(ctx, entity, filter)
	case domain.CascadeDelete:
		return s.store.DeleteMany(ctx, entity, filter)
	case domain.CascadeSoftDelete:
		patch := store.Patch{"is_deleted": true, "is_active": false}
		if updatedBy != nil {
			patch["updated_by"] = *updatedBy
		}
		return s.store.UpdateMany(ctx, entity, filter, patch)
	}
	return 0, domain.ErrInvalidInput
}
