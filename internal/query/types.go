// Package query serves the catalog over HTTP: a client posts a SQL
// string and gets back a DuckDB result streamed as an Arrow IPC stream.
// Grounded on original_source/backend/src/server.rs's ChannelWriter/
// oneshot handshake, reimplemented without the async bridge Rust's axum
// needed — a Go http.Handler already runs on its own blocking goroutine.
package query

import "github.com/apache/arrow-go/v18/arrow"

// arrowTypeFor maps a DuckDB column's reported database type name to an
// Arrow field type. BLOB maps to Arrow binary; anything not recognized
// falls back to a UTF-8 string, which is how the catalog's enum and UUID
// columns are surfaced.
func arrowTypeFor(databaseTypeName string) arrow.DataType {
	switch databaseTypeName {
	case "TINYINT", "SMALLINT", "INTEGER", "BIGINT", "HUGEINT":
		return arrow.PrimitiveTypes.Int64
	case "UTINYINT", "USMALLINT", "UINTEGER", "UBIGINT", "UHUGEINT":
		return arrow.PrimitiveTypes.Uint64
	case "FLOAT":
		return arrow.PrimitiveTypes.Float32
	case "DOUBLE", "DECIMAL":
		return arrow.PrimitiveTypes.Float64
	case "BOOLEAN":
		return arrow.FixedWidthTypes.Boolean
	case "TIMESTAMP", "TIMESTAMP WITH TIME ZONE", "DATE":
		return arrow.FixedWidthTypes.Timestamp_us
	case "BLOB":
		return arrow.BinaryTypes.Binary
	default:
		// VARCHAR, UUID, ENUM(format), and anything else DuckDB can render
		// as text.
		return arrow.BinaryTypes.String
	}
}
