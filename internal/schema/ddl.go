package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/Rana718/seedgraph/internal/seeder"
)

// TableInfo is a table read from a CREATE TABLE statement.
type TableInfo struct {
	Name       string
	Columns    []ColumnInfo
	PrimaryKey string
	// CompositeKey holds the columns of a multi-column PRIMARY KEY (...).
	CompositeKey []string
}

type ColumnInfo struct {
	Name          string
	Type          string
	Nullable      bool
	IsPrimary     bool
	AutoIncrement bool
	Default       string
	FKTable       string
	FKColumn      string
}

func (c ColumnInfo) IsForeignKey() bool { return c.FKTable != "" }

type foreignKeyConstraint struct {
	ColumnName       string
	ReferencedTable  string
	ReferencedColumn string
}

// DDLOptions controls how parsed tables become generator tables.
type DDLOptions struct {
	DefaultCount   int
	Counts         map[string]int
	InferRelations bool
}

// LoadDDL parses every .sql file under path (or path itself when it is a
// file), in file name order.
func LoadDDL(path string) ([]TableInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read DDL path: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = filepath.Glob(filepath.Join(path, "*.sql"))
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .sql files found in %s", path)
	}

	var tables []TableInfo
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		parsed, err := ParseDDL(string(content))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		tables = append(tables, parsed...)
	}
	return tables, nil
}

// ParseDDL extracts the CREATE TABLE statements of a SQL script. Other
// statements are ignored.
func ParseDDL(sql string) ([]TableInfo, error) {
	var tables []TableInfo
	for _, stmt := range splitStatements(cleanSQL(sql)) {
		if !createTableStmtRegex.MatchString(stmt) {
			continue
		}
		table, err := parseCreateTableStatement(stmt)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// BuildConfig turns parsed tables into a generator config. Auto-increment
// keys become sequences, foreign keys become relations and every other
// column is filled from its name and type.
func BuildConfig(tables []TableInfo, opts DDLOptions) seeder.Config {
	byName := make(map[string]*TableInfo, len(tables))
	for i := range tables {
		byName[tables[i].Name] = &tables[i]
	}

	cfg := seeder.Config{Tables: make([]seeder.Table, 0, len(tables))}
	for _, t := range tables {
		count := opts.DefaultCount
		if n, ok := opts.Counts[t.Name]; ok {
			count = n
		}

		pairs := joinFields(t)
		columns := make([]seeder.Column, 0, len(t.Columns))
		for _, col := range t.Columns {
			field, ok := pairs[col.Name]
			if !ok {
				field = columnField(col, byName, opts.InferRelations)
			}
			columns = append(columns, seeder.Column{Name: col.Name, Field: field})
		}
		cfg.Tables = append(cfg.Tables, seeder.Table{Name: t.Name, Count: count, Schema: columns})
	}
	return cfg
}

// joinFields returns the two sides of a cross join when the table's primary
// key is exactly two foreign key columns, so every generated key is unique.
func joinFields(t TableInfo) map[string]seeder.Field {
	if len(t.CompositeKey) != 2 {
		return nil
	}
	var left, right *ColumnInfo
	for i := range t.Columns {
		col := &t.Columns[i]
		switch col.Name {
		case t.CompositeKey[0]:
			left = col
		case t.CompositeKey[1]:
			right = col
		}
	}
	if left == nil || right == nil || !left.IsForeignKey() || !right.IsForeignKey() {
		return nil
	}
	if left.FKTable == t.Name || right.FKTable == t.Name {
		return nil
	}

	join := seeder.CrossJoinOn(left.FKTable, left.FKColumn, right.FKTable, right.FKColumn)
	return map[string]seeder.Field{
		left.Name:  join.Left(),
		right.Name: join.Right(),
	}
}

func columnField(col ColumnInfo, tables map[string]*TableInfo, infer bool) seeder.Field {
	switch {
	case col.IsForeignKey():
		return seeder.Relation(col.FKTable, col.FKColumn)
	case col.IsPrimary && (col.AutoIncrement || isIntegerType(col.Type)):
		return seeder.Sequence(1)
	}

	if infer && !col.IsPrimary {
		if target := inferTarget(col.Name, tables); target != nil {
			key := target.PrimaryKey
			if key == "" {
				key = "id"
			}
			return seeder.Relation(target.Name, key)
		}
	}

	return seeder.SQLColumn(col.Name, col.Type, col.Nullable)
}

// inferTarget maps author_id to authors (or author) when such a table exists.
func inferTarget(column string, tables map[string]*TableInfo) *TableInfo {
	lower := strings.ToLower(column)
	if !strings.HasSuffix(lower, "_id") || len(lower) == len("_id") {
		return nil
	}
	base := strings.TrimSuffix(lower, "_id")
	for _, candidate := range []string{inflect.Pluralize(base), base} {
		if t, ok := tables[candidate]; ok {
			return t
		}
	}
	return nil
}

func isIntegerType(colType string) bool {
	upper := strings.ToUpper(colType)
	return strings.Contains(upper, "INT") || strings.Contains(upper, "SERIAL")
}

func cleanSQL(sql string) string {
	sql = commentRegex.ReplaceAllString(sql, "")
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(sql, " "))
}

func splitStatements(sql string) []string {
	statements := strings.Split(sql, ";")
	result := make([]string, 0, len(statements))

	for _, stmt := range statements {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}

func parseCreateTableStatement(stmt string) (TableInfo, error) {
	matches := tableRegex.FindStringSubmatch(stmt)
	tableName := extractTableName(matches)
	if tableName == "" {
		return TableInfo{}, fmt.Errorf("could not extract table name from: %s", stmt)
	}

	start, end := strings.Index(stmt, "("), strings.LastIndex(stmt, ")")
	if start == -1 || end <= start {
		return TableInfo{}, fmt.Errorf("invalid CREATE TABLE syntax for %s", tableName)
	}

	table := TableInfo{Name: tableName}
	var foreignKeys []foreignKeyConstraint
	var primaryKeys []string

	for _, def := range splitColumnDefinitions(stmt[start+1 : end]) {
		if def = strings.TrimSpace(def); def == "" {
			continue
		}

		if isTableConstraint(def) {
			if fk := parseForeignKeyConstraint(def); fk != nil {
				foreignKeys = append(foreignKeys, *fk)
			}
			if m := pkListRegex.FindStringSubmatch(def); m != nil {
				for _, name := range strings.Split(m[1], ",") {
					primaryKeys = append(primaryKeys, strings.Trim(strings.TrimSpace(name), "\"`"))
				}
			}
			continue
		}

		column, err := parseColumnDefinition(def)
		if err != nil {
			return TableInfo{}, fmt.Errorf("table %s: %w", tableName, err)
		}
		table.Columns = append(table.Columns, column)
	}

	applyForeignKeys(table.Columns, foreignKeys)

	if len(primaryKeys) > 1 {
		table.CompositeKey = primaryKeys
	}

	// a single-column table-level key behaves like an inline one
	if len(primaryKeys) == 1 {
		for i := range table.Columns {
			if table.Columns[i].Name == primaryKeys[0] {
				table.Columns[i].IsPrimary = true
				table.Columns[i].Nullable = false
			}
		}
	}
	for _, col := range table.Columns {
		if col.IsPrimary {
			table.PrimaryKey = col.Name
			break
		}
	}

	return table, nil
}

func extractTableName(matches []string) string {
	for i := 1; i < len(matches); i++ {
		if matches[i] != "" {
			return matches[i]
		}
	}
	return ""
}

func applyForeignKeys(columns []ColumnInfo, foreignKeys []foreignKeyConstraint) {
	for _, fk := range foreignKeys {
		for i := range columns {
			if columns[i].Name == fk.ColumnName {
				columns[i].FKTable = fk.ReferencedTable
				columns[i].FKColumn = fk.ReferencedColumn
				break
			}
		}
	}
}

func parseForeignKeyConstraint(constraint string) *foreignKeyConstraint {
	matches := fkRegex.FindStringSubmatch(constraint)
	if len(matches) < 4 {
		return nil
	}
	return &foreignKeyConstraint{
		ColumnName:       matches[1],
		ReferencedTable:  matches[2],
		ReferencedColumn: matches[3],
	}
}

// splitColumnDefinitions splits on top-level commas so DECIMAL(10, 2) stays
// in one piece.
func splitColumnDefinitions(defs string) []string {
	var result []string
	var current strings.Builder
	parenLevel := 0

	for _, char := range defs {
		switch char {
		case '(':
			parenLevel++
			current.WriteRune(char)
		case ')':
			parenLevel--
			current.WriteRune(char)
		case ',':
			if parenLevel == 0 {
				result = append(result, current.String())
				current.Reset()
			} else {
				current.WriteRune(char)
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		result = append(result, current.String())
	}
	return result
}

func isTableConstraint(def string) bool {
	return constraintRegex.MatchString(strings.TrimSpace(def))
}

func parseColumnDefinition(colDef string) (ColumnInfo, error) {
	spaceIdx := strings.IndexAny(colDef, " \t")
	if spaceIdx == -1 {
		return ColumnInfo{}, fmt.Errorf("invalid column definition: %s", colDef)
	}

	column := ColumnInfo{
		Name:     strings.Trim(colDef[:spaceIdx], "\"`"),
		Nullable: true,
	}
	rest := strings.TrimSpace(colDef[spaceIdx+1:])
	column.Type = extractType(rest)

	parseColumnConstraints(&column, colDef)
	return column, nil
}

func extractType(rest string) string {
	restUpper := strings.ToUpper(rest)
	for _, multi := range []string{"TIMESTAMP WITH TIME ZONE", "TIMESTAMP WITHOUT TIME ZONE", "DOUBLE PRECISION", "CHARACTER VARYING"} {
		if strings.HasPrefix(restUpper, multi) {
			return multi
		}
	}

	parenDepth := 0
	for i, ch := range rest {
		switch {
		case ch == '(':
			parenDepth++
		case ch == ')':
			parenDepth--
			if parenDepth == 0 {
				return rest[:i+1]
			}
		case parenDepth == 0 && (ch == ' ' || ch == '\t'):
			return rest[:i]
		}
	}
	return rest
}

func parseColumnConstraints(column *ColumnInfo, colDef string) {
	defUpper := strings.ToUpper(colDef)
	typeUpper := strings.ToUpper(column.Type)

	if strings.Contains(defUpper, "NOT NULL") {
		column.Nullable = false
	}
	if strings.Contains(defUpper, "PRIMARY KEY") {
		column.IsPrimary = true
		column.Nullable = false
	}
	if strings.Contains(typeUpper, "SERIAL") ||
		strings.Contains(defUpper, "AUTOINCREMENT") ||
		strings.Contains(defUpper, "AUTO_INCREMENT") ||
		strings.Contains(defUpper, "GENERATED") {
		column.AutoIncrement = true
		column.IsPrimary = column.IsPrimary || strings.Contains(typeUpper, "SERIAL")
		column.Nullable = false
	}

	if matches := referencesRegex.FindStringSubmatch(colDef); len(matches) >= 3 {
		column.FKTable = matches[1]
		column.FKColumn = matches[2]
	}

	if matches := defaultRegex.FindStringSubmatch(colDef); len(matches) > 1 {
		column.Default = matches[1]
	}
}
