// Package reindex re-embeds the stored message corpus, for use after an
// embedding model change.
//
// This package supports batch processing of messages, progress tracking,
// retry logic with exponential backoff, and vector normalization to ensure
// compatibility with cosine similarity search.
package reindex
