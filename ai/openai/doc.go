// Package openai implements ai.Embedder for OpenAI-compatible embedding APIs
// such as Ollama, LocalAI and vLLM.
package openai
