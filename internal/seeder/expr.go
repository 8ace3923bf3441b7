package seeder

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

var exprEnv *cel.Env

func init() {
	env, err := cel.NewEnv(
		cel.Variable("row", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("index", cel.IntType),
	)
	if err != nil {
		panic(fmt.Sprintf("seeder: failed to build expression environment: %v", err))
	}
	exprEnv = env
}

type exprField struct {
	source  string
	program cel.Program
}

// Expr compiles a CEL expression computed from the columns already set on
// the current row (`row`) and the row index (`index`), e.g.
// `double(row.basePrice) * 0.2`.
func Expr(source string) (Field, error) {
	ast, issues := exprEnv.Compile(source)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", source, issues.Err())
	}
	program, err := exprEnv.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", source, err)
	}
	return &exprField{source: source, program: program}, nil
}

func (f *exprField) Kind() FieldKind { return KindScalar }
func (f *exprField) Dependencies() []string { return nil }

func (f *exprField) Generate(ctx *Context) (any, error) {
	out, _, err := f.program.Eval(map[string]any{
		"row":   ctx.Row.Map(),
		"index": int64(ctx.Index),
	})
	if err != nil {
		return nil, schemaf(ctx.Table, "expression %q failed: %v", f.source, err)
	}
	if _, isNull := out.(types.Null); isNull {
		return nil, nil
	}
	return out.Value(), nil
}
