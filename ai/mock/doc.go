// Package mock provides a deterministic test double for ai.Embedder.
package mock
