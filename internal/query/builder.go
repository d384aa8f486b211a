package query

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// buildSchema derives an Arrow schema from a prepared query's reported
// column types. Every field is nullable: DuckDB doesn't expose
// not-null-ness through database/sql's ColumnType, and the catalog's own
// NOT NULL constraints are already enforced at write time.
func buildSchema(columns []*sql.ColumnType) *arrow.Schema {
	fields := make([]arrow.Field, len(columns))
	for i, col := range columns {
		fields[i] = arrow.Field{
			Name:     col.Name(),
			Type:     arrowTypeFor(col.DatabaseTypeName()),
			Nullable: true,
		}
	}
	return arrow.NewSchema(fields, nil)
}

// appendRow appends one scanned database row onto rb's field builders, in
// schema column order. A nil value (SQL NULL) becomes an Arrow null in
// every builder kind.
func appendRow(rb *array.RecordBuilder, row []any) error {
	for i, v := range row {
		b := rb.Field(i)
		if v == nil {
			b.AppendNull()
			continue
		}
		if err := appendValue(b, v); err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
	}
	return nil
}

func appendValue(b array.Builder, v any) error {
	switch builder := b.(type) {
	case *array.Int64Builder:
		n, err := toInt64(v)
		if err != nil {
			return err
		}
		builder.Append(n)
	case *array.Uint64Builder:
		n, err := toInt64(v)
		if err != nil {
			return err
		}
		builder.Append(uint64(n))
	case *array.Float32Builder:
		f, err := toFloat64(v)
		if err != nil {
			return err
		}
		builder.Append(float32(f))
	case *array.Float64Builder:
		f, err := toFloat64(v)
		if err != nil {
			return err
		}
		builder.Append(f)
	case *array.BooleanBuilder:
		bv, ok := v.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", v)
		}
		builder.Append(bv)
	case *array.TimestampBuilder:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("expected time.Time, got %T", v)
		}
		builder.Append(arrow.Timestamp(t.UnixMicro()))
	case *array.BinaryBuilder:
		bytes, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("expected []byte, got %T", v)
		}
		builder.Append(bytes)
	case *array.StringBuilder:
		builder.Append(stringify(v))
	default:
		return fmt.Errorf("unsupported builder type %T", b)
	}
	return nil
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected float, got %T", v)
	}
}
