// Package export renders generated datasets as SQL, CSV, JSON, MessagePack
// and SQLite files.
package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Rana718/seedgraph/internal/seeder"
)

// DateFormat is used for every time value written as text.
const DateFormat = "2006-01-02T15:04:05.000Z07:00"

// tableOrder lists the tables of data: the names in order first, then the
// rest sorted by name.
func tableOrder(data seeder.Snapshot, order []string) []string {
	seen := make(map[string]bool, len(data))
	names := make([]string, 0, len(data))
	for _, name := range order {
		if _, ok := data[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	var rest []string
	for name := range data {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// columnsOf returns the union of the rows' columns in first-seen order.
func columnsOf(rows []*seeder.Row) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, row := range rows {
		for _, col := range row.Columns() {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}
	return columns
}

// formatText renders a value for text formats. Nil becomes the empty string.
func formatText(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.UTC().Format(DateFormat)
	case fmt.Stringer:
		return v.String()
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// normalize replaces time values with their text form so every encoder
// writes the same representation.
func normalize(row *seeder.Row) *seeder.Row {
	out := seeder.NewRow()
	for _, col := range row.Columns() {
		v := row.Value(col)
		if t, ok := v.(time.Time); ok {
			v = t.UTC().Format(DateFormat)
		}
		out.Set(col, v)
	}
	return out
}
