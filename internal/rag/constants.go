package rag

import "time"

// VectorDimension is the embedding dimensionality stored in the index.
// gemini-embedding-001 outputs 3072 dimensions by default but supports
// truncation via OutputDimensionality; the documents table schema uses
// vector(768), so the embedder must request 768.
const VectorDimension int32 = 768

// Timeouts for external calls. Every provider call carries one so a slow
// provider can never block a request indefinitely; a timeout at query
// time degrades to the empty-context path.
const (
	// EmbedTimeout bounds one embedding call (batch or single).
	EmbedTimeout = 30 * time.Second

	// SearchTimeout bounds one vector-index search.
	SearchTimeout = 10 * time.Second

	// GenerateTimeout bounds one generative-model call.
	GenerateTimeout = 60 * time.Second
)

// ContextSeparator joins selected chunk contents into the grounded
// context block.
const ContextSeparator = "\n---\n"

// NoInformationAnswer is returned without calling the generative model
// when no usable context was retrieved.
const NoInformationAnswer = "I couldn't find any relevant information in the documents."
