package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/Rana718/seedgraph/internal/seeder"
)

type Dialect string

const (
	PostgreSQL Dialect = "postgresql"
	MySQL      Dialect = "mysql"
	SQLite     Dialect = "sqlite"
)

// ParseDialect accepts the dialect names used in config files and flags.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgresql", "postgres", "pg":
		return PostgreSQL, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported dialect: %s (supported: postgresql, mysql, sqlite)", name)
	}
}

type SQLOptions struct {
	Dialect      Dialect
	Order        []string
	CreateTables bool
	// Batch is the number of rows per INSERT statement.
	Batch int
}

// ToSQL renders data as INSERT statements, one table after another.
func ToSQL(data seeder.Snapshot, opts SQLOptions) (string, error) {
	blocks, err := buildStatements(data, opts)
	if err != nil {
		return "", err
	}

	out := getBuffer()
	defer putBuffer(out)
	for i, block := range blocks {
		if i > 0 {
			out.WriteString("\n")
		}
		for _, stmt := range block {
			out.WriteString(stmt)
			out.WriteString(";\n")
		}
	}
	return out.String(), nil
}

// buildStatements returns the statements of each non-empty table in export
// order.
func buildStatements(data seeder.Snapshot, opts SQLOptions) ([][]string, error) {
	if opts.Dialect == "" {
		opts.Dialect = PostgreSQL
	}
	if _, err := ParseDialect(string(opts.Dialect)); err != nil {
		return nil, err
	}
	batch := opts.Batch
	if batch <= 0 {
		batch = 1
	}

	var blocks [][]string
	for _, table := range tableOrder(data, opts.Order) {
		rows := data[table]
		if len(rows) == 0 {
			continue
		}
		columns := columnsOf(rows)

		var block []string
		if opts.CreateTables {
			block = append(block, createTableSQL(opts.Dialect, table, columns, rows))
		}
		for start := 0; start < len(rows); start += batch {
			end := min(start+batch, len(rows))
			stmt, err := insertSQL(opts.Dialect, table, columns, rows[start:end])
			if err != nil {
				return nil, fmt.Errorf("failed to build insert for %s: %w", table, err)
			}
			block = append(block, stmt)
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func insertSQL(dialect Dialect, table string, columns []string, rows []*seeder.Row) (string, error) {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(dialect, col)
	}

	builder := sq.Insert(quoteIdent(dialect, table)).
		Columns(quoted...).
		PlaceholderFormat(sq.Question)

	for _, row := range rows {
		values := make([]any, len(columns))
		for i, col := range columns {
			values[i] = sq.Expr(formatValue(dialect, row.Value(col)))
		}
		builder = builder.Values(values...)
	}

	stmt, _, err := builder.ToSql()
	return stmt, err
}

func createTableSQL(dialect Dialect, table string, columns []string, rows []*seeder.Row) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = quoteIdent(dialect, col) + " " + columnType(dialect, firstValue(rows, col))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(dialect, table), strings.Join(defs, ", "))
}

func firstValue(rows []*seeder.Row, col string) any {
	for _, row := range rows {
		if v := row.Value(col); v != nil {
			return v
		}
	}
	return nil
}

func columnType(dialect Dialect, sample any) string {
	switch sample.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		if dialect == SQLite {
			return "INTEGER"
		}
		return "BIGINT"
	case float32, float64:
		switch dialect {
		case PostgreSQL:
			return "DOUBLE PRECISION"
		case MySQL:
			return "DOUBLE"
		default:
			return "REAL"
		}
	case bool:
		return "BOOLEAN"
	case time.Time:
		switch dialect {
		case PostgreSQL:
			return "TIMESTAMPTZ"
		case MySQL:
			return "DATETIME(3)"
		default:
			return "TEXT"
		}
	default:
		return "TEXT"
	}
}

func quoteIdent(dialect Dialect, name string) string {
	if dialect == MySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return pgx.Identifier{name}.Sanitize()
}

func quoteLiteral(dialect Dialect, s string) string {
	switch dialect {
	case PostgreSQL:
		return strings.TrimSpace(pq.QuoteLiteral(s))
	case MySQL:
		escaped := strings.ReplaceAll(s, "\\", "\\\\")
		return "'" + strings.ReplaceAll(escaped, "'", "''") + "'"
	default:
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
}

// formatValue renders a value as a SQL literal for dialect.
func formatValue(dialect Dialect, val any) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case string:
		return quoteLiteral(dialect, v)
	case []byte:
		return quoteLiteral(dialect, string(v))
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		if dialect == MySQL {
			return quoteLiteral(dialect, v.UTC().Format("2006-01-02 15:04:05.000"))
		}
		return quoteLiteral(dialect, v.UTC().Format(DateFormat))
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return quoteLiteral(dialect, fmt.Sprintf("%v", v))
		}
		return quoteLiteral(dialect, string(b))
	default:
		return quoteLiteral(dialect, fmt.Sprintf("%v", v))
	}
}
