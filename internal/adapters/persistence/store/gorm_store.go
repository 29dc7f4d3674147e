package store

import (
	"context"
	"errors"
	"fmt"

	"attendly/internal/adapters/persistence/models"
	"attendly/internal/core/domain"

	"gorm.io/gorm"
)

// gormStore implements Store on top of GORM/MySQL.
type gormStore struct {
	db *gorm.DB
}

// NewGorm creates a record store backed by a GORM connection.
func NewGorm(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) scoped(ctx context.Context, entity domain.Entity, filter Cond) (*gorm.DB, error) {
	model := models.For(entity)
	if model == nil {
		return nil, fmt.Errorf("unknown entity %q", entity)
	}
	sql, args := Compile(filter)
	return s.db.WithContext(ctx).Model(model).Where(sql, args...), nil
}

func (s *gormStore) FindOne(ctx context.Context, entity domain.Entity, filter Cond, out interface{}) error {
	tx, err := s.scoped(ctx, entity, filter)
	if err != nil {
		return err
	}
	if err := tx.First(out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *gormStore) FindMany(ctx context.Context, entity domain.Entity, filter Cond, out interface{}) error {
	tx, err := s.scoped(ctx, entity, filter)
	if err != nil {
		return err
	}
	return tx.Find(out).Error
}

func (s *gormStore) FindPage(ctx context.Context, entity domain.Entity, filter Cond, offset, limit int, out interface{}) error {
	tx, err := s.scoped(ctx, entity, filter)
	if err != nil {
		return err
	}
	return tx.Offset(offset).Limit(limit).Find(out).Error
}

func (s *gormStore) FindIDs(ctx context.Context, entity domain.Entity, filter Cond) ([]uint, error) {
	tx, err := s.scoped(ctx, entity, filter)
	if err != nil {
		return nil, err
	}
	var ids []uint
	if err := tx.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *gormStore) Create(ctx context.Context, entity domain.Entity, record interface{}) error {
	if models.For(entity) == nil {
		return fmt.Errorf("unknown entity %q", entity)
	}
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *gormStore) UpdateOne(ctx context.Context, entity domain.Entity, filter Cond, patch Patch) error {
	tx, err := s.scoped(ctx, entity, filter)
	if err != nil {
		return err
	}
	res := tx.Limit(1).Updates(map[string]interface{}(patch))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) UpdateMany(ctx context.Context, entity domain.Entity, filter Cond, patch Patch) (int64, error) {
	tx, err := s.scoped(ctx, entity, filter)
	if err != nil {
		return 0, err
	}
	res := tx.Updates(map[string]interface{}(patch))
	return res.RowsAffected, res.Error
}

func (s *gormStore) DeleteMany(ctx context.Context, entity domain.Entity, filter Cond) (int64, error) {
	model := models.For(entity)
	if model == nil {
		return 0, fmt.Errorf("unknown entity %q", entity)
	}
	sql, args := Compile(filter)
	res := s.db.WithContext(ctx).Where(sql, args...).Delete(model)
	return res.RowsAffected, res.Error
}

func (s *gormStore) Count(ctx context.Context, entity domain.Entity, filter Cond) (int64, error) {
	tx, err := s.scoped(ctx, entity, filter)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
