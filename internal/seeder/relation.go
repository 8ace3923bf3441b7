package seeder

// relation resolves a foreign key by sampling a row of the target table.
type relation struct {
	table string
	field string

	// set by the engine once the owning table is known
	bound bool
	self  bool
}

// Relation references field (default "id") of a random row of table. When
// table is the table being generated, the value comes from one of its
// earlier rows, and the first row gets nil.
func Relation(table string, field ...string) Field {
	r := &relation{table: table, field: "id"}
	if len(field) > 0 && field[0] != "" {
		r.field = field[0]
	}
	return r
}

func (r *relation) Kind() FieldKind { return KindRelation }
func (r *relation) Dependencies() []string { return []string{r.table} }

func (r *relation) Target() (table, field string) { return r.table, r.field }

// bindOwner returns a copy that knows whether it points at its own table.
func (r *relation) bindOwner(owner string) Field {
	bound := *r
	bound.bound = true
	bound.self = r.table == owner
	return &bound
}

func (r *relation) isSelf(ctx *Context) bool {
	if r.bound {
		return r.self
	}
	_, finished := ctx.DB[r.table]
	return !finished
}

func (r *relation) Generate(ctx *Context) (any, error) {
	var pool []*Row
	if r.isSelf(ctx) {
		if len(ctx.Store) == 0 {
			return nil, nil
		}
		pool = ctx.Store
	} else {
		rows, ok := ctx.DB[r.table]
		if !ok {
			return nil, integrityf(r.table, "table '%s' has not been generated", r.table)
		}
		if len(rows) == 0 {
			return nil, integrityf(r.table, "table '%s' is empty", r.table)
		}
		pool = rows
	}

	record := pool[ctx.Faker.Intn(len(pool))]
	v, ok := record.Get(r.field)
	if !ok {
		return nil, schemaf(r.table, "field '%s' does not exist in table '%s'", r.field, r.table)
	}
	return v, nil
}
