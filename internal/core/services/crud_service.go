package services

import (
	"context"
	"errors"

	"attendly/internal/adapters/persistence/store"
	"attendly/internal/core/domain"
)

// CrudService is the shared create/read/update surface behind the generic
// entity endpoints. Destructive operations go through the cascade service
// so dependent records are handled consistently; everything here operates
// on one entity at a time.
type CrudService struct {
	store   store.Store
	cascade *CascadeService
}

// NewCrudService creates a new crud service
func NewCrudService(s store.Store, cascade *CascadeService) *CrudService {
	return &CrudService{store: s, cascade: cascade}
}

// Create inserts a record. The caller fills the model; ownership columns
// are set from the acting account before insert.
func (s *CrudService) Create(ctx context.Context, entity domain.Entity, record interface{}) error {
	return s.store.Create(ctx, entity, record)
}

// List returns a page of live records plus the total match count.
func (s *CrudService) List(ctx context.Context, entity domain.Entity, filter store.Cond, offset, limit int, out interface{}) (int64, error) {
	scoped := store.Alive(filter)
	total, err := s.store.Count(ctx, entity, scoped)
	if err != nil {
		return 0, err
	}
	if err := s.store.FindPage(ctx, entity, scoped, offset, limit, out); err != nil {
		return 0, err
	}
	return total, nil
}

// Get fetches one live record by id.
func (s *CrudService) Get(ctx context.Context, entity domain.Entity, id uint, out interface{}) error {
	return s.GetBy(ctx, entity, store.Eq{Field: "id", Value: id}, out)
}

// GetBy fetches the one live record matching filter.
func (s *CrudService) GetBy(ctx context.Context, entity domain.Entity, filter store.Cond, out interface{}) error {
	err := s.store.FindOne(ctx, entity, store.Alive(filter), out)
	if errors.Is(err, store.ErrNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// Count returns the number of live records matching filter.
func (s *CrudService) Count(ctx context.Context, entity domain.Entity, filter store.Cond) (int64, error) {
	return s.store.Count(ctx, entity, store.Alive(filter))
}

// Update applies a partial update to one record by id. Identity and
// ownership columns are stripped from the patch.
func (s *CrudService) Update(ctx context.Context, entity domain.Entity, id, updatedBy uint, patch store.Patch) error {
	sanitized := store.Patch{}
	for column, value := range patch {
		switch column {
		case "id", "added_by", "created_at":
			continue
		}
		sanitized[column] = value
	}
	sanitized["updated_by"] = updatedBy

	err := s.store.UpdateOne(ctx, entity, store.Alive(store.Eq{Field: "id", Value: id}), sanitized)
	if errors.Is(err, store.ErrNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// UpdateMany applies a partial update to every live record matching filter.
func (s *CrudService) UpdateMany(ctx context.Context, entity domain.Entity, filter store.Cond, updatedBy uint, patch store.Patch) (int64, error) {
	sanitized := store.Patch{}
	for column, value := range patch {
		switch column {
		case "id", "added_by", "created_at":
			continue
		}
		sanitized[column] = value
	}
	sanitized["updated_by"] = updatedBy
	return s.store.UpdateMany(ctx, entity, store.Alive(filter), sanitized)
}

// SoftDelete flags the records matching filter, and their dependents,
// deleted. Returns per-entity affected counts.
func (s *CrudService) SoftDelete(ctx context.Context, entity domain.Entity, filter store.Cond, updatedBy uint) (map[domain.Entity]int64, error) {
	return s.cascade.Cascade(ctx, domain.CascadeSoftDelete, entity, filter, &updatedBy)
}

// Delete removes the records matching filter, and their dependents, for
// good. Returns per-entity affected counts.
func (s *CrudService) Delete(ctx context.Context, entity domain.Entity, filter store.Cond) (map[domain.Entity]int64, error) {
	return s.cascade.Cascade(ctx, domain.CascadeDelete, entity, filter, nil)
}

// CountDependents reports what a delete of the records matching filter
// would affect, without touching anything.
func (s *CrudService) CountDependents(ctx context.Context, entity domain.Entity, filter store.Cond) (map[domain.Entity]int64, error) {
	return s.cascade.Cascade(ctx, domain.CascadeCount, entity, filter, nil)
}
