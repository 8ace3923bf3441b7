package export

import (
	"bytes"
	"encoding/json"

	"github.com/Rana718/seedgraph/internal/seeder"
)

// ToJSON renders data as one object keyed by table name. Tables follow
// tableOrder and each row keeps its column order.
func ToJSON(data seeder.Snapshot, order []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, table := range tableOrder(data, order) {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(table)
		if err != nil {
			return nil, err
		}
		rows := make([]*seeder.Row, len(data[table]))
		for j, row := range data[table] {
			rows[j] = normalize(row)
		}
		value, err := json.Marshal(rows)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	return pretty.Bytes(), nil
}
