// Package rag implements the Retrieval-Augmented Generation pipeline for
// sahayak: ingesting source documents into a vector index and answering
// free-text questions grounded in the retrieved chunks.
//
// # Architecture
//
//	Ingestion:  document bytes → parser (pages) → Chunker → Embedder → VectorIndex
//	Query:      question → Retriever → Reranker → context assembly → AnswerGenerator
//
// The two entry points consumed by the CLI and the HTTP layer are
// Pipeline.Ingest and Pipeline.Query. Everything external — the embedding
// provider, the vector index, the generative model, the pair scorer — is
// reached through an interface defined in this package, so each stage can
// be substituted with a fake in tests.
//
// # Failure policy
//
// Failures that only degrade retrieval quality (parsing, embedding at
// query time, batch inserts, vector search) are absorbed: ingestion
// isolates them per document or per batch, and querying degrades to the
// "no relevant information" answer. Re-ranking and generation failures
// are propagated because silently continuing would return untrustworthy
// answers.
package rag
