package seeder

import (
	"time"
)

type scalarField struct {
	fn func(ctx *Context) (any, error)
}

func (scalarField) Kind() FieldKind { return KindScalar }
func (scalarField) Dependencies() []string { return nil }
func (s scalarField) Generate(ctx *Context) (any, error) { return s.fn(ctx) }

func scalar(fn func(ctx *Context) any) Field {
	return scalarField{fn: func(ctx *Context) (any, error) { return fn(ctx), nil }}
}

func UUID() Field { return scalar(func(ctx *Context) any { return ctx.Faker.UUID() }) }
func FullName() Field { return scalar(func(ctx *Context) any { return ctx.Faker.FullName() }) }
func FirstName() Field { return scalar(func(ctx *Context) any { return ctx.Faker.FirstName() }) }
func LastName() Field { return scalar(func(ctx *Context) any { return ctx.Faker.LastName() }) }
func Email() Field { return scalar(func(ctx *Context) any { return ctx.Faker.Email() }) }
func Bool() Field { return scalar(func(ctx *Context) any { return ctx.Faker.Bool() }) }
func Word() Field { return scalar(func(ctx *Context) any { return ctx.Faker.Word() }) }
func Title() Field { return scalar(func(ctx *Context) any { return ctx.Faker.Title() }) }
func URL() Field { return scalar(func(ctx *Context) any { return ctx.Faker.URL() }) }
func Phone() Field { return scalar(func(ctx *Context) any { return ctx.Faker.Phone() }) }
func Address() Field { return scalar(func(ctx *Context) any { return ctx.Faker.Address() }) }

func Sentence(words int) Field {
	return scalar(func(ctx *Context) any { return ctx.Faker.Sentence(words) })
}

// IntRange yields integers in [min, max].
func IntRange(min, max int) Field {
	return scalar(func(ctx *Context) any { return ctx.Faker.IntRange(min, max) })
}

func FloatRange(min, max float64) Field {
	return scalar(func(ctx *Context) any { return ctx.Faker.FloatRange(min, max) })
}

// OneOf picks uniformly from values.
func OneOf(values ...any) Field {
	return scalar(func(ctx *Context) any { return ctx.Faker.Pick(values) })
}

func Const(value any) Field {
	return scalar(func(*Context) any { return value })
}

// Sequence yields start, start+1, ... following the row index.
func Sequence(start int) Field {
	return scalar(func(ctx *Context) any { return start + ctx.Index })
}

// Custom wraps an arbitrary function. It may read earlier columns through
// ctx.Row.
func Custom(fn func(ctx *Context) any) Field {
	return scalar(fn)
}

// CustomE is Custom for functions that can fail; the error aborts generation.
func CustomE(fn func(ctx *Context) (any, error)) Field {
	return scalarField{fn: fn}
}

// SQLColumn generates values from the column name and SQL type heuristics.
func SQLColumn(name, sqlType string, nullable bool) Field {
	return scalar(func(ctx *Context) any { return ctx.Faker.ForColumn(name, sqlType, nullable) })
}

// DatePast yields a time within the last years years of the reference time.
func DatePast(years int) Field {
	return scalar(func(ctx *Context) any { return ctx.Faker.DatePast(years) })
}

// DateSoon yields a time at most days days after the value of the ref
// column of the current row, or after the reference time when ref is empty.
func DateSoon(days int, ref string) Field {
	return scalarField{fn: func(ctx *Context) (any, error) {
		base := ctx.Faker.ReferenceTime()
		if ref != "" {
			v, ok := ctx.Row.Get(ref)
			if !ok {
				return nil, schemaf(ctx.Table, "field '%s' does not exist in table '%s'", ref, ctx.Table)
			}
			t, ok := v.(time.Time)
			if !ok {
				return nil, schemaf(ctx.Table, "field '%s' in table '%s' is not a time (got %T)", ref, ctx.Table, v)
			}
			base = t
		}
		return ctx.Faker.DateSoon(base, days), nil
	}}
}
