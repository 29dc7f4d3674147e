package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompile(t *testing.T) {
	t.Run("nil matches everything", func(t *testing.T) {
		sql, args := Compile(nil)
		assert.Equal(t, "1 = 1", sql)
		assert.Empty(t, args)
	})

	t.Run("equality", func(t *testing.T) {
		sql, args := Compile(Eq{Field: "username", Value: "ada"})
		assert.Equal(t, "username = ?", sql)
		assert.Equal(t, []interface{}{"ada"}, args)
	})

	t.Run("empty membership matches nothing", func(t *testing.T) {
		sql, args := Compile(In{Field: "id"})
		assert.Equal(t, "1 = 0", sql)
		assert.Empty(t, args)
	})

	t.Run("membership", func(t *testing.T) {
		sql, args := Compile(InIDs("added_by", []uint{1, 2}))
		assert.Equal(t, "added_by IN ?", sql)
		assert.Len(t, args, 1)
	})

	t.Run("disjunction of memberships", func(t *testing.T) {
		sql, _ := Compile(Or{
			InIDs("added_by", []uint{1}),
			InIDs("updated_by", []uint{1}),
		})
		assert.Equal(t, "(added_by IN ?) OR (updated_by IN ?)", sql)
	})

	t.Run("alive scoping", func(t *testing.T) {
		sql, args := Compile(Alive(Eq{Field: "id", Value: uint(3)}))
		assert.Equal(t, "(id = ?) AND (is_active = ?) AND (is_deleted = ?)", sql)
		assert.Equal(t, []interface{}{uint(3), true, false}, args)
	})

	t.Run("range bounds", func(t *testing.T) {
		sql, _ := Compile(And{
			Gte{Field: "signed_in_at", Value: "a"},
			Lte{Field: "signed_in_at", Value: "b"},
		})
		assert.Equal(t, "(signed_in_at >= ?) AND (signed_in_at <= ?)", sql)
	})
}

func TestColumns(t *testing.T) {
	type record struct {
		ID         uint
		AddedBy    *uint
		SignedInAt string
	}
	cols := Columns(&record{})

	assert.Contains(t, cols, "id")
	assert.Contains(t, cols, "added_by")
	assert.Contains(t, cols, "signed_in_at")
	assert.NotContains(t, cols, "id = 1 OR 1 = 1")
	assert.Len(t, cols, 3)
}

func TestAliveDoesNotMutateInput(t *testing.T) {
	base := And{Eq{Field: "id", Value: uint(1)}}
	_ = Alive(base...)
	assert.Len(t, base, 1)
}
