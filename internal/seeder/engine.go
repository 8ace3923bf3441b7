package seeder

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

type Option func(*Engine)

// WithOutput makes the engine report progress to w.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.out = w }
}

func WithFaker(f *Faker) Option {
	return func(e *Engine) { e.faker = f }
}

// WithReferenceTime anchors DatePast and DateSoon at t.
func WithReferenceTime(t time.Time) Option {
	return func(e *Engine) { e.refTime = &t }
}

// Engine generates every configured table in dependency order.
type Engine struct {
	tables  map[string]Table
	graph   *DependencyGraph
	faker   *Faker
	joins   []*CrossJoin
	out     io.Writer
	refTime *time.Time
}

// Step is one table of the execution plan.
type Step struct {
	Table      string
	Level      int
	DependsOn  []string
	Count      int
	Configured bool
}

type ownerBinder interface {
	bindOwner(owner string) Field
}

func New(cfg Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		tables: make(map[string]Table, len(cfg.Tables)),
		graph:  NewDependencyGraph(),
		out:    io.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.faker == nil {
		e.faker = NewFaker()
	}
	if e.refTime != nil {
		e.faker.SetReferenceTime(*e.refTime)
	}

	if err := e.buildExecutionPlan(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// buildExecutionPlan validates the configuration, binds relations to their
// owning table and registers every dependency edge.
func (e *Engine) buildExecutionPlan(cfg Config) error {
	joinOwner := make(map[*CrossJoin]string)

	for _, table := range cfg.Tables {
		if table.Name == "" {
			return configf("table name is required")
		}
		if _, exists := e.tables[table.Name]; exists {
			return configf("duplicate table name: %q", table.Name)
		}
		if table.Count < 0 {
			return configf("table %q has negative row count %d", table.Name, table.Count)
		}

		schema := make([]Column, 0, len(table.Schema))
		seen := make(map[string]bool, len(table.Schema))
		sides := make(map[*CrossJoin][2]int)
		var joinOrder []*CrossJoin

		for _, col := range table.Schema {
			if col.Name == "" {
				return configf("table %q has a column without a name", table.Name)
			}
			if seen[col.Name] {
				return configf("table %q has duplicate column %q", table.Name, col.Name)
			}
			seen[col.Name] = true
			if col.Field == nil {
				return configf("column %s.%s has no field", table.Name, col.Name)
			}

			field := col.Field
			if b, ok := field.(ownerBinder); ok {
				field = b.bindOwner(table.Name)
			}
			if side, ok := field.(*crossJoinSide); ok {
				counts, known := sides[side.join]
				if !known {
					joinOrder = append(joinOrder, side.join)
				}
				counts[side.side]++
				sides[side.join] = counts
			}
			schema = append(schema, Column{Name: col.Name, Field: field})
		}

		for _, join := range joinOrder {
			counts := sides[join]
			if counts[0] != 1 || counts[1] != 1 {
				return configf("table %q must use the left and right side of the %s/%s cross join exactly once each",
					table.Name, join.tableA, join.tableB)
			}
			if owner, used := joinOwner[join]; used {
				return configf("cross join %s/%s is used by both %q and %q", join.tableA, join.tableB, owner, table.Name)
			}
			joinOwner[join] = table.Name
			e.joins = append(e.joins, join)
		}

		e.tables[table.Name] = Table{Name: table.Name, Count: table.Count, Schema: schema}
		e.graph.AddNode(table.Name)
	}

	for _, table := range cfg.Tables {
		for _, col := range e.tables[table.Name].Schema {
			for _, dep := range col.Field.Dependencies() {
				if dep != table.Name {
					e.graph.AddDependency(table.Name, dep)
				}
			}
		}
	}
	return nil
}

// Seed makes the next Generate reproducible.
func (e *Engine) Seed(value int64) {
	e.faker.Seed(value)
}

func (e *Engine) Faker() *Faker { return e.faker }

func (e *Engine) Graph() *DependencyGraph { return e.graph }

// Order returns the execution order, including tables that are only
// referenced and have no configuration.
func (e *Engine) Order() ([]string, error) {
	return e.graph.ResolveOrder()
}

// Plan describes the execution order with each table's dependencies.
func (e *Engine) Plan() ([]Step, error) {
	levels, err := e.graph.Levels()
	if err != nil {
		return nil, err
	}
	order, err := e.graph.ResolveOrder()
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(order))
	for _, name := range order {
		table, configured := e.tables[name]
		steps = append(steps, Step{
			Table:      name,
			Level:      levels[name],
			DependsOn:  e.graph.DependenciesOf(name),
			Count:      table.Count,
			Configured: configured,
		})
	}
	return steps, nil
}

// Generate builds every table and returns the finished snapshot. The first
// error aborts the whole run.
func (e *Engine) Generate() (Snapshot, error) {
	order, err := e.graph.ResolveOrder()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve execution order: %w", err)
	}

	for _, join := range e.joins {
		join.Reset()
	}

	e.say(color.FgCyan, "📋 Execution order: %s\n", strings.Join(order, " → "))

	db := make(Snapshot, len(e.tables))
	for _, name := range order {
		table, ok := e.tables[name]
		if !ok {
			// referenced only, nothing to generate
			continue
		}

		rows, err := e.generateTable(db, table)
		if err != nil {
			return nil, err
		}
		db[name] = rows
		e.say(color.FgGreen, "  ✅ %s: %d rows\n", name, len(rows))
	}

	return db, nil
}

func (e *Engine) generateTable(db Snapshot, table Table) ([]*Row, error) {
	rows := make([]*Row, 0, table.Count)

	for i := 0; i < table.Count; i++ {
		row := NewRow()
		ctx := &Context{
			DB:    db,
			Store: rows,
			Row:   row,
			Table: table.Name,
			Index: i,
			Faker: e.faker,
		}

		for _, col := range table.Schema {
			v, err := col.Field.Generate(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to generate %s[%d].%s: %w", table.Name, i, col.Name, err)
			}
			row.Set(col.Name, v)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func (e *Engine) say(attr color.Attribute, format string, args ...any) {
	color.New(attr).Fprintf(e.out, format, args...)
}
