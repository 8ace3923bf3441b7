package seeder

import (
	"bytes"
	"encoding/json"
)

type FieldKind string

const (
	KindScalar   FieldKind = "scalar"
	KindRelation FieldKind = "relation"
)

// Field computes the value of one column for one row.
type Field interface {
	// Kind is informational only.
	Kind() FieldKind
	// Dependencies lists the tables that must be generated before the
	// owning table. A dependency on the owning table itself is allowed.
	Dependencies() []string
	Generate(ctx *Context) (any, error)
}

type Column struct {
	Name  string
	Field Field
}

type Table struct {
	Name   string
	Count  int
	Schema []Column
}

// Config is the full set of tables to generate. Declaration order is kept
// as the graph's registration order.
type Config struct {
	Tables []Table
}

// Snapshot holds every fully generated table by name.
type Snapshot map[string][]*Row

// Context is handed to every Field.Generate call.
type Context struct {
	DB    Snapshot // finished tables only
	Store []*Row   // rows of Table generated so far
	Row   *Row     // row under construction; earlier columns are set
	Table string
	Index int
	Faker *Faker
}

// Row is an ordered record. Rows are passed around by pointer and the
// pointer is the row's identity.
type Row struct {
	columns []string
	values  map[string]any
}

func NewRow() *Row {
	return &Row{values: make(map[string]any)}
}

// RowOf builds a row from alternating column/value pairs.
func RowOf(pairs ...any) *Row {
	r := NewRow()
	for i := 0; i+1 < len(pairs); i += 2 {
		name, _ := pairs[i].(string)
		r.Set(name, pairs[i+1])
	}
	return r
}

func (r *Row) Set(column string, value any) {
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

func (r *Row) Get(column string) (any, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Value returns the column value or nil when the column is absent.
func (r *Row) Value(column string) any {
	return r.values[column]
}

func (r *Row) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

func (r *Row) Columns() []string {
	return append([]string(nil), r.columns...)
}

func (r *Row) Len() int { return len(r.columns) }

// Map returns a copy of the row's values.
func (r *Row) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

// MarshalJSON writes the columns in declaration order.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[col])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
