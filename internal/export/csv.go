package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Rana718/seedgraph/internal/seeder"
)

// ToCSV renders every table as a CSV document with a header row. Null
// values are written as empty cells.
func ToCSV(data seeder.Snapshot) (map[string]string, error) {
	out := make(map[string]string, len(data))
	for table, rows := range data {
		var buf bytes.Buffer
		if err := writeCSV(&buf, rows); err != nil {
			return nil, fmt.Errorf("failed to write CSV for %s: %w", table, err)
		}
		out[table] = strings.TrimSuffix(buf.String(), "\n")
	}
	return out, nil
}

func writeCSV(w io.Writer, rows []*seeder.Row) error {
	writer := csv.NewWriter(w)
	headers := columnsOf(rows)
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, row := range rows {
		values := make([]string, len(headers))
		for i, header := range headers {
			values[i] = formatText(row.Value(header))
		}
		if err := writer.Write(values); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
