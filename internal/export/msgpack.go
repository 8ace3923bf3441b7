package export

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Rana718/seedgraph/internal/seeder"
)

// ToMsgpack encodes data as a map of table name to an array of row maps.
// Maps are written in table and column order.
func ToMsgpack(data seeder.Snapshot, order []string) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)

	tables := tableOrder(data, order)
	if err := enc.EncodeMapLen(len(tables)); err != nil {
		return nil, err
	}
	for _, table := range tables {
		if err := enc.EncodeString(table); err != nil {
			return nil, err
		}
		rows := data[table]
		if err := enc.EncodeArrayLen(len(rows)); err != nil {
			return nil, err
		}
		for _, row := range rows {
			if err := encodeRow(enc, row); err != nil {
				return nil, err
			}
		}
	}
	return buf.Bytes(), nil
}

func encodeRow(enc *msgpack.Encoder, row *seeder.Row) error {
	columns := row.Columns()
	if err := enc.EncodeMapLen(len(columns)); err != nil {
		return err
	}
	for _, col := range columns {
		if err := enc.EncodeString(col); err != nil {
			return err
		}
		if err := enc.Encode(row.Value(col)); err != nil {
			return err
		}
	}
	return nil
}
