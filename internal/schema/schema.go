// Package schema reads generator schemas from YAML documents and from SQL
// CREATE TABLE scripts.
package schema

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Rana718/seedgraph/internal/seeder"
)

// ErrSyntax marks a malformed schema document.
var ErrSyntax = errors.New("invalid schema")

// Document is a parsed schema file.
type Document struct {
	Seed   *int64
	Config seeder.Config
}

// fieldDef is the long form of a field entry. Only the keys relevant to
// Type are read.
type fieldDef struct {
	Type   string   `yaml:"type"`
	Min    *float64 `yaml:"min"`
	Max    *float64 `yaml:"max"`
	Words  int      `yaml:"words"`
	Values []any    `yaml:"values"`
	Value  any      `yaml:"value"`
	Start  *int     `yaml:"start"`
	Years  int      `yaml:"years"`
	Days   int      `yaml:"days"`
	Ref    string   `yaml:"ref"`
	Table  string   `yaml:"table"`
	Field  string   `yaml:"field"`
	Side   string   `yaml:"side"`
	Tables []string `yaml:"tables"`
	Fields []string `yaml:"fields"`
	Expr   string   `yaml:"expr"`
}

// Load reads and parses a schema file. Tables without a count get
// defaultCount.
func Load(path string, defaultCount int) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	doc, err := Parse(data, defaultCount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse builds a Document from YAML. Tables and fields keep the order in
// which they appear in the document.
func Parse(data []byte, defaultCount int) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrSyntax)
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, syntaxErr(top, "expected a mapping at the top level")
	}

	doc := &Document{}
	var tablesNode *yaml.Node
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, value := top.Content[i], top.Content[i+1]
		switch key.Value {
		case "seed":
			var seed int64
			if err := value.Decode(&seed); err != nil {
				return nil, syntaxErr(value, "seed must be an integer")
			}
			doc.Seed = &seed
		case "tables":
			tablesNode = value
		default:
			return nil, syntaxErr(key, "unknown key %q", key.Value)
		}
	}

	if tablesNode == nil || tablesNode.Kind != yaml.MappingNode {
		return nil, syntaxErr(top, "a 'tables' mapping is required")
	}

	for i := 0; i+1 < len(tablesNode.Content); i += 2 {
		table, err := parseTable(tablesNode.Content[i].Value, tablesNode.Content[i+1], defaultCount)
		if err != nil {
			return nil, err
		}
		doc.Config.Tables = append(doc.Config.Tables, table)
	}
	return doc, nil
}

// ApplyCounts overrides table counts by name.
func (d *Document) ApplyCounts(counts map[string]int) {
	for i := range d.Config.Tables {
		if n, ok := counts[d.Config.Tables[i].Name]; ok {
			d.Config.Tables[i].Count = n
		}
	}
}

func parseTable(name string, node *yaml.Node, defaultCount int) (seeder.Table, error) {
	table := seeder.Table{Name: name, Count: defaultCount}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return table, syntaxErr(node, "invalid table name %q", name)
	}
	if node.Kind != yaml.MappingNode {
		return table, syntaxErr(node, "table '%s' must be a mapping", name)
	}

	// fields sharing the same pair of tables draw from one allocator
	joins := make(map[string]*seeder.CrossJoin)

	var fieldsNode *yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "count":
			if err := value.Decode(&table.Count); err != nil {
				return table, syntaxErr(value, "count of table '%s' must be an integer", name)
			}
		case "fields":
			fieldsNode = value
		default:
			return table, syntaxErr(key, "unknown key %q in table '%s'", key.Value, name)
		}
	}

	if fieldsNode == nil || fieldsNode.Kind != yaml.MappingNode {
		return table, syntaxErr(node, "table '%s' needs a 'fields' mapping", name)
	}

	for i := 0; i+1 < len(fieldsNode.Content); i += 2 {
		column := fieldsNode.Content[i].Value
		field, err := parseField(name, column, fieldsNode.Content[i+1], joins)
		if err != nil {
			return table, err
		}
		table.Schema = append(table.Schema, seeder.Column{Name: column, Field: field})
	}
	return table, nil
}

func parseField(table, column string, node *yaml.Node, joins map[string]*seeder.CrossJoin) (seeder.Field, error) {
	var def fieldDef
	switch node.Kind {
	case yaml.ScalarNode:
		def.Type = node.Value
	case yaml.MappingNode:
		if err := node.Decode(&def); err != nil {
			return nil, syntaxErr(node, "%s.%s: %v", table, column, err)
		}
	default:
		return nil, syntaxErr(node, "%s.%s: expected a type name or a mapping", table, column)
	}

	fail := func(format string, args ...any) error {
		return syntaxErr(node, "%s.%s: %s", table, column, fmt.Sprintf(format, args...))
	}

	switch def.Type {
	case "uuid":
		return seeder.UUID(), nil
	case "fullName":
		return seeder.FullName(), nil
	case "firstName":
		return seeder.FirstName(), nil
	case "lastName":
		return seeder.LastName(), nil
	case "email":
		return seeder.Email(), nil
	case "boolean":
		return seeder.Bool(), nil
	case "word":
		return seeder.Word(), nil
	case "title":
		return seeder.Title(), nil
	case "url":
		return seeder.URL(), nil
	case "phone":
		return seeder.Phone(), nil
	case "address":
		return seeder.Address(), nil
	case "sentence":
		return seeder.Sentence(def.Words), nil
	case "int":
		lo, hi := bounds(def, 0, 1000)
		if hi < lo {
			return nil, fail("max must not be less than min")
		}
		return seeder.IntRange(int(lo), int(hi)), nil
	case "float":
		lo, hi := bounds(def, 0, 1000)
		if hi < lo {
			return nil, fail("max must not be less than min")
		}
		return seeder.FloatRange(lo, hi), nil
	case "oneOf":
		if len(def.Values) == 0 {
			return nil, fail("oneOf needs at least one value")
		}
		return seeder.OneOf(def.Values...), nil
	case "const":
		return seeder.Const(def.Value), nil
	case "sequence":
		start := 1
		if def.Start != nil {
			start = *def.Start
		}
		return seeder.Sequence(start), nil
	case "datePast":
		return seeder.DatePast(def.Years), nil
	case "dateSoon":
		return seeder.DateSoon(def.Days, def.Ref), nil
	case "relation":
		if def.Table == "" {
			return nil, fail("relation needs a table")
		}
		if def.Field == "" {
			return seeder.Relation(def.Table), nil
		}
		return seeder.Relation(def.Table, def.Field), nil
	case "crossJoin":
		return crossJoinField(def, joins, fail)
	case "expr":
		if def.Expr == "" {
			return nil, fail("expr needs an expression")
		}
		field, err := seeder.Expr(def.Expr)
		if err != nil {
			return nil, fail("%v", err)
		}
		return field, nil
	case "":
		return nil, fail("missing field type")
	default:
		return nil, fail("unknown field type %q", def.Type)
	}
}

func crossJoinField(def fieldDef, joins map[string]*seeder.CrossJoin, fail func(string, ...any) error) (seeder.Field, error) {
	if len(def.Tables) != 2 {
		return nil, fail("crossJoin needs exactly two tables")
	}
	fields := def.Fields
	switch len(fields) {
	case 0:
		fields = []string{"id", "id"}
	case 2:
	default:
		return nil, fail("crossJoin fields must name one field per table")
	}

	key := strings.Join(append(append([]string(nil), def.Tables...), fields...), "\x00")
	join, ok := joins[key]
	if !ok {
		join = seeder.CrossJoinOn(def.Tables[0], fields[0], def.Tables[1], fields[1])
		joins[key] = join
	}

	switch def.Side {
	case "left":
		return join.Left(), nil
	case "right":
		return join.Right(), nil
	default:
		return nil, fail("crossJoin side must be 'left' or 'right'")
	}
}

func bounds(def fieldDef, lo, hi float64) (float64, float64) {
	if def.Min != nil {
		lo = *def.Min
	}
	if def.Max != nil {
		hi = *def.Max
	}
	return lo, hi
}

func syntaxErr(node *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, node.Line, fmt.Sprintf(format, args...))
}
