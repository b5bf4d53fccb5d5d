// Package writer archives fetched batches to Postgres.
//
// The snapshot writer is a batch sink: every successful batch the dashboard
// fetches is flattened to one row per record and inserted with
// ON CONFLICT DO NOTHING, so a re-delivered batch is harmless. Rows are
// buffered and flushed by size or interval. When the input buffer is full
// new batches are dropped rather than blocking the fetch path.
package writer
