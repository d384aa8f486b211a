package query

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/franzsee/collectune/internal/catalog"
	"github.com/franzsee/collectune/internal/util"
)

// batchSize is how many rows accumulate into one Arrow record batch
// before it's flushed onto the wire.
const batchSize = 1024

// NewRouter builds the HTTP surface: a single POST /query endpoint behind
// permissive CORS (§4.7). Grounded on server.rs's Router, reimplemented
// with go-chi/chi/v5 (the routing library alexander-bruun-Orb already
// pulls in) in place of axum.
func NewRouter(store *catalog.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(permissiveCORS)
	r.Post("/query", handleQuery(store))
	return r
}

// permissiveCORS mirrors alexander-bruun-Orb's hand-rolled corsMiddleware:
// every origin, the one method this server actually exposes, and a plain
// preflight short-circuit.
func permissiveCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleQuery reads the request body as a raw SQL string, prepares and
// runs it under the catalog's single connection, and streams the result
// as an Arrow IPC stream. A prepare/execute failure is reported as a 400
// before any bytes are written; a failure after that point truncates the
// stream, matching §4.7/§7's "errors during streaming simply truncate
// the response, the client detects the missing end-of-stream marker."
func handleQuery(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "read request body: "+err.Error(), http.StatusBadRequest)
			return
		}

		store.Lock()
		defer store.Unlock()

		rows, schema, err := prepareQuery(r.Context(), store, string(body))
		if err != nil {
			util.WarnLog("query prepare failed: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer rows.Close()

		w.Header().Set("Content-Type", "application/vnd.apache.arrow.stream")
		w.WriteHeader(http.StatusOK)

		fw := flushWriter{w: w}
		if f, ok := w.(http.Flusher); ok {
			fw.flusher = f
		}

		ipcWriter := ipc.NewWriter(fw, ipc.WithSchema(schema.schema))
		defer ipcWriter.Close()

		if err := streamBatches(rows, schema, ipcWriter); err != nil {
			util.WarnLog("query streaming truncated: %v", err)
		}
	}
}

// prepareQuery runs the synchronous prepare-and-describe step: a bad SQL
// string fails here, before any response header is committed.
func prepareQuery(ctx context.Context, store *catalog.Store, sqlText string) (*sql.Rows, *arrowSchemaResult, error) {
	rows, err := store.DB().QueryContext(ctx, sqlText)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", util.ErrQueryPrepare, err)
	}

	columns, err := rows.ColumnTypes()
	if err != nil {
		rows.Close()
		return nil, nil, fmt.Errorf("%w: %v", util.ErrQueryPrepare, err)
	}

	return rows, &arrowSchemaResult{schema: buildSchema(columns), columns: columns}, nil
}

type arrowSchemaResult struct {
	schema  *arrow.Schema
	columns []*sql.ColumnType
}

func streamBatches(rows *sql.Rows, result *arrowSchemaResult, w *ipc.Writer) error {
	mem := memory.NewGoAllocator()
	rb := array.NewRecordBuilder(mem, result.schema)
	defer rb.Release()

	dest := make([]any, len(result.columns))
	destPtrs := make([]any, len(result.columns))
	for i := range dest {
		destPtrs[i] = &dest[i]
	}

	n := 0
	for rows.Next() {
		if err := rows.Scan(destPtrs...); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		if err := appendRow(rb, dest); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
		n++
		if n >= batchSize {
			if err := flushBatch(rb, w); err != nil {
				return err
			}
			n = 0
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}
	if n > 0 {
		return flushBatch(rb, w)
	}
	return nil
}

func flushBatch(rb *array.RecordBuilder, w *ipc.Writer) error {
	rec := rb.NewRecord()
	defer rec.Release()
	return w.Write(rec)
}

// flushWriter flushes the underlying ResponseWriter after every chunk so
// record batches reach the client as soon as they're written, rather than
// buffering until the handler returns.
type flushWriter struct {
	w       io.Writer
	flusher http.Flusher
}

func (f flushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if f.flusher != nil {
		f.flusher.Flush()
	}
	return n, err
}
