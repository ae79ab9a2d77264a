// Package ingest orchestrates the import of chat export archives.
//
// The Pipeline type manages upload jobs through a multi-stage state machine:
// extraction of the uploaded archive, then import of every conversation file
// it contains. Imports parse files with the parser package, persist
// conversations and messages, generate embeddings through a bounded worker
// pool, and index vectors for semantic search.
//
// Jobs run concurrently and independently. Within one job, files are
// processed sequentially so failure attribution and progress accounting stay
// deterministic. Line- and file-level failures are recorded and never abort
// a job; only archive corruption or storage failures do.
package ingest
