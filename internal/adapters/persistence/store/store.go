package store

import (
	"context"
	"errors"

	"attendly/internal/core/domain"
)

// ErrNotFound is returned by FindOne and UpdateOne when no record matches
// the filter. Implementations translate their native not-found errors so
// services never depend on a driver.
var ErrNotFound = errors.New("record not found")

// Patch is a partial update keyed by column name.
type Patch map[string]interface{}

// Store is the generic record store the core components run against.
// Filters are the typed predicate algebra from this package; out
// parameters follow the GORM convention (pointer to model struct, or
// pointer to slice of model structs for FindMany).
type Store interface {
	FindOne(ctx context.Context, entity domain.Entity, filter Cond, out interface{}) error
	FindMany(ctx context.Context, entity domain.Entity, filter Cond, out interface{}) error
	FindPage(ctx context.Context, entity domain.Entity, filter Cond, offset, limit int, out interface{}) error
	FindIDs(ctx context.Context, entity domain.Entity, filter Cond) ([]uint, error)
	Create(ctx context.Context, entity domain.Entity, record interface{}) error
	UpdateOne(ctx context.Context, entity domain.Entity, filter Cond, patch Patch) error
	UpdateMany(ctx context.Context, entity domain.Entity, filter Cond, patch Patch) (int64, error)
	DeleteMany(ctx context.Context, entity domain.Entity, filter Cond) (int64, error)
	Count(ctx context.Context, entity domain.Entity, filter Cond) (int64, error)
}
