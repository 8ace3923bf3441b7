package seeder

// CrossJoin hands out unique (A, B) pairs from the cartesian product of two
// tables, for the two foreign keys of a many-to-many join table. Left and
// Right must both be used, once each, in the same table.
type CrossJoin struct {
	tableA, fieldA string
	tableB, fieldB string

	pool    [][2]any
	ready   bool
	cursor  int
	lastRow *Row
	current [2]any
}

// NewCrossJoin pairs the id fields of tableA and tableB.
func NewCrossJoin(tableA, tableB string) *CrossJoin {
	return CrossJoinOn(tableA, "id", tableB, "id")
}

// CrossJoinOn pairs fieldA of tableA with fieldB of tableB. An empty field
// means "id".
func CrossJoinOn(tableA, fieldA, tableB, fieldB string) *CrossJoin {
	if fieldA == "" {
		fieldA = "id"
	}
	if fieldB == "" {
		fieldB = "id"
	}
	return &CrossJoin{tableA: tableA, fieldA: fieldA, tableB: tableB, fieldB: fieldB}
}

// Left yields the tableA half of the row's pair.
func (c *CrossJoin) Left() Field { return &crossJoinSide{join: c, side: 0} }

// Right yields the tableB half of the row's pair.
func (c *CrossJoin) Right() Field { return &crossJoinSide{join: c, side: 1} }

// Capacity is the number of unique pairs once the pool is built.
func (c *CrossJoin) Capacity() int { return len(c.pool) }

// Reset drops the pool so the next use rebuilds it from the snapshot.
func (c *CrossJoin) Reset() {
	c.pool = nil
	c.ready = false
	c.cursor = 0
	c.lastRow = nil
	c.current = [2]any{}
}

func (c *CrossJoin) init(ctx *Context) error {
	rowsA, okA := ctx.DB[c.tableA]
	rowsB, okB := ctx.DB[c.tableB]
	if !okA || !okB {
		return integrityf(ctx.Table, "cross join requires tables '%s' and '%s' to be generated first", c.tableA, c.tableB)
	}
	if len(rowsA) == 0 {
		return integrityf(c.tableA, "table '%s' is empty", c.tableA)
	}
	if len(rowsB) == 0 {
		return integrityf(c.tableB, "table '%s' is empty", c.tableB)
	}

	valuesA, err := columnValues(rowsA, c.tableA, c.fieldA)
	if err != nil {
		return err
	}
	valuesB, err := columnValues(rowsB, c.tableB, c.fieldB)
	if err != nil {
		return err
	}

	pool := make([][2]any, 0, len(valuesA)*len(valuesB))
	for _, a := range valuesA {
		for _, b := range valuesB {
			pool = append(pool, [2]any{a, b})
		}
	}
	ctx.Faker.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	c.pool = pool
	c.ready = true
	return nil
}

func (c *CrossJoin) pairFor(ctx *Context) ([2]any, error) {
	if !c.ready {
		if err := c.init(ctx); err != nil {
			return [2]any{}, err
		}
	}
	if c.lastRow != nil && c.lastRow == ctx.Row {
		return c.current, nil
	}
	if c.cursor >= len(c.pool) {
		return [2]any{}, newError(ErrExhaustion, ctx.Table,
			"cross join of '%s' and '%s' ran out of unique pairs after %d rows", c.tableA, c.tableB, len(c.pool))
	}
	c.current = c.pool[c.cursor]
	c.cursor++
	c.lastRow = ctx.Row
	return c.current, nil
}

func columnValues(rows []*Row, table, field string) ([]any, error) {
	values := make([]any, 0, len(rows))
	for _, row := range rows {
		v, ok := row.Get(field)
		if !ok {
			return nil, schemaf(table, "field '%s' does not exist in table '%s'", field, table)
		}
		values = append(values, v)
	}
	return values, nil
}

type crossJoinSide struct {
	join *CrossJoin
	side int
}

func (s *crossJoinSide) Kind() FieldKind { return KindRelation }

func (s *crossJoinSide) Dependencies() []string {
	return []string{s.join.tableA, s.join.tableB}
}

func (s *crossJoinSide) Generate(ctx *Context) (any, error) {
	pair, err := s.join.pairFor(ctx)
	if err != nil {
		return nil, err
	}
	return pair[s.side], nil
}
