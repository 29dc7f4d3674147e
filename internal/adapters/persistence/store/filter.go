package store

import (
	"reflect"
	"strings"
)

// Cond is a structured query predicate. The algebra is intentionally
// small: equality, set membership, range bounds and logical composition
// are all the cascade and attendance queries need.
type Cond interface {
	isCond()
}

// Eq matches records whose column equals the value.
type Eq struct {
	Field string
	Value interface{}
}

// In matches records whose column is a member of the value set.
type In struct {
	Field  string
	Values []interface{}
}

// Gte matches records whose column is >= the value.
type Gte struct {
	Field string
	Value interface{}
}

// Lte matches records whose column is <= the value.
type Lte struct {
	Field string
	Value interface{}
}

// Or matches records satisfying any branch.
type Or []Cond

// And matches records satisfying every branch.
type And []Cond

func (Eq) isCond()  {}
func (In) isCond()  {}
func (Gte) isCond() {}
func (Lte) isCond() {}
func (Or) isCond()  {}
func (And) isCond() {}

// InIDs builds a set-membership condition from record identifiers.
func InIDs(field string, ids []uint) In {
	values := make([]interface{}, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return In{Field: field, Values: values}
}

// Alive restricts a condition to active, non-deleted records.
func Alive(conds ...Cond) And {
	all := append(And{}, conds...)
	return append(all, Eq{Field: "is_active", Value: true}, Eq{Field: "is_deleted", Value: false})
}

// Columns reports the column names a model exposes, using the same
// field naming the stores apply. Filter and patch keys taken from a
// request body must be checked against this set before they reach
// Compile, which interpolates field names into the fragment.
func Columns(model interface{}) map[string]struct{} {
	rt := reflect.TypeOf(model)
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	cols := make(map[string]struct{}, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		cols[toSnake(rt.Field(i).Name)] = struct{}{}
	}
	return cols
}

// Compile renders a condition as a SQL fragment with placeholder args.
// A nil condition compiles to an always-true fragment.
func Compile(c Cond) (string, []interface{}) {
	if c == nil {
		return "1 = 1", nil
	}
	switch v := c.(type) {
	case Eq:
		return v.Field + " = ?", []interface{}{v.Value}
	case In:
		if len(v.Values) == 0 {
			// empty membership matches nothing
			return "1 = 0", nil
		}
		return v.Field + " IN ?", []interface{}{v.Values}
	case Gte:
		return v.Field + " >= ?", []interface{}{v.Value}
	case Lte:
		return v.Field + " <= ?", []interface{}{v.Value}
	case Or:
		return compileList([]Cond(v), " OR ")
	case And:
		return compileList([]Cond(v), " AND ")
	}
	return "1 = 1", nil
}

func compileList(conds []Cond, sep string) (string, []interface{}) {
	if len(conds) == 0 {
		return "1 = 1", nil
	}
	parts := make([]string, 0, len(conds))
	var args []interface{}
	for _, c := range conds {
		sql, a := Compile(c)
		parts = append(parts, "("+sql+")")
		args = append(args, a...)
	}
	return strings.Join(parts, sep), args
}
