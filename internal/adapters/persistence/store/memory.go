package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"attendly/internal/core/domain"
)

// Memory is an in-process Store used by tests and local development. It
// matches the predicate algebra against struct fields by their snake_case
// column names, mirroring the GORM naming the MySQL store relies on.
type Memory struct {
	mu     sync.Mutex
	tables map[domain.Entity][]interface{}
	lastID map[domain.Entity]uint
}

// NewMemory creates an empty in-memory record store.
func NewMemory() *Memory {
	return &Memory{
		tables: make(map[domain.Entity][]interface{}),
		lastID: make(map[domain.Entity]uint),
	}
}

func (m *Memory) FindOne(ctx context.Context, entity domain.Entity, filter Cond, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.tables[entity] {
		if matches(rec, filter) {
			dst := reflect.ValueOf(out).Elem()
			dst.Set(reflect.ValueOf(rec).Elem())
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) FindMany(ctx context.Context, entity domain.Entity, filter Cond, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	slice := reflect.ValueOf(out).Elem()
	for _, rec := range m.tables[entity] {
		if matches(rec, filter) {
			slice.Set(reflect.Append(slice, reflect.ValueOf(rec).Elem()))
		}
	}
	return nil
}

func (m *Memory) FindPage(ctx context.Context, entity domain.Entity, filter Cond, offset, limit int, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	slice := reflect.ValueOf(out).Elem()
	skipped := 0
	for _, rec := range m.tables[entity] {
		if !matches(rec, filter) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if limit > 0 && slice.Len() >= limit {
			break
		}
		slice.Set(reflect.Append(slice, reflect.ValueOf(rec).Elem()))
	}
	return nil
}

func (m *Memory) FindIDs(ctx context.Context, entity domain.Entity, filter Cond) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []uint
	for _, rec := range m.tables[entity] {
		if matches(rec, filter) {
			ids = append(ids, uint(fieldByColumn(rec, "id").Uint()))
		}
	}
	return ids, nil
}

func (m *Memory) Create(ctx context.Context, entity domain.Entity, record interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rv := reflect.ValueOf(record)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("create expects a pointer to struct, got %T", record)
	}
	id := fieldByColumn(record, "id")
	if id.Uint() == 0 {
		m.lastID[entity]++
		id.SetUint(uint64(m.lastID[entity]))
	} else if uint(id.Uint()) > m.lastID[entity] {
		m.lastID[entity] = uint(id.Uint())
	}

	cp := reflect.New(rv.Elem().Type())
	cp.Elem().Set(rv.Elem())
	m.tables[entity] = append(m.tables[entity], cp.Interface())
	return nil
}

func (m *Memory) UpdateOne(ctx context.Context, entity domain.Entity, filter Cond, patch Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.tables[entity] {
		if matches(rec, filter) {
			applyPatch(rec, patch)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) UpdateMany(ctx context.Context, entity domain.Entity, filter Cond, patch Patch) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, rec := range m.tables[entity] {
		if matches(rec, filter) {
			applyPatch(rec, patch)
			n++
		}
	}
	return n, nil
}

func (m *Memory) DeleteMany(ctx context.Context, entity domain.Entity, filter Cond) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var kept []interface{}
	var n int64
	for _, rec := range m.tables[entity] {
		if matches(rec, filter) {
			n++
			continue
		}
		kept = append(kept, rec)
	}
	m.tables[entity] = kept
	return n, nil
}

func (m *Memory) Count(ctx context.Context, entity domain.Entity, filter Cond) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, rec := range m.tables[entity] {
		if matches(rec, filter) {
			n++
		}
	}
	return n, nil
}

// matches evaluates a condition against a record. A nil condition matches
// everything, like an empty WHERE clause.
func matches(rec interface{}, cond Cond) bool {
	if cond == nil {
		return true
	}
	switch c := cond.(type) {
	case Eq:
		return compare(fieldValue(rec, c.Field), c.Value) == 0
	case In:
		fv := fieldValue(rec, c.Field)
		for _, v := range c.Values {
			if compare(fv, v) == 0 {
				return true
			}
		}
		return false
	case Gte:
		return compare(fieldValue(rec, c.Field), c.Value) >= 0
	case Lte:
		return compare(fieldValue(rec, c.Field), c.Value) <= 0
	case Or:
		for _, branch := range c {
			if matches(rec, branch) {
				return true
			}
		}
		return false
	case And:
		for _, branch := range c {
			if !matches(rec, branch) {
				return false
			}
		}
		return true
	}
	return false
}

// compare returns -1/0/1 for ordered values and 0/1 (equal / not equal)
// for unordered ones. Nil pointer fields never equal a concrete value.
func compare(a, b interface{}) int {
	if a == nil || b == nil {
		if a == nil && b == nil {
			return 0
		}
		return 1
	}
	at, aIsTime := a.(time.Time)
	bt, bIsTime := b.(time.Time)
	if aIsTime && bIsTime {
		if at.Equal(bt) {
			return 0
		}
		if at.Before(bt) {
			return -1
		}
		return 1
	}
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	if reflect.DeepEqual(a, b) {
		return 0
	}
	return 1
}

func toFloat(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// fieldValue resolves a column name to the record's field value,
// dereferencing pointer fields. A nil pointer yields nil.
func fieldValue(rec interface{}, column string) interface{} {
	fv := fieldByColumn(rec, column)
	if !fv.IsValid() {
		return nil
	}
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return nil
		}
		fv = fv.Elem()
	}
	return fv.Interface()
}

func fieldByColumn(rec interface{}, column string) reflect.Value {
	rv := reflect.ValueOf(rec).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		if toSnake(rt.Field(i).Name) == column {
			return rv.Field(i)
		}
	}
	return reflect.Value{}
}

func applyPatch(rec interface{}, patch Patch) {
	for column, value := range patch {
		fv := fieldByColumn(rec, column)
		if !fv.IsValid() {
			continue
		}
		if value == nil {
			fv.Set(reflect.Zero(fv.Type()))
			continue
		}
		vv := reflect.ValueOf(value)
		if fv.Kind() == reflect.Ptr && vv.Kind() != reflect.Ptr {
			p := reflect.New(fv.Type().Elem())
			p.Elem().Set(vv.Convert(fv.Type().Elem()))
			fv.Set(p)
			continue
		}
		if vv.Type().ConvertibleTo(fv.Type()) {
			fv.Set(vv.Convert(fv.Type()))
		}
	}
}

// toSnake mirrors GORM's default column naming for field names.
func toSnake(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
