package rag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidChunking indicates chunker parameters that cannot produce a
// valid chunk sequence.
var ErrInvalidChunking = errors.New("invalid chunking parameters")

// Chunker splits page text into fixed-size overlapping windows.
// Splitting is deterministic: identical input and parameters always
// yield the identical chunk sequence.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a Chunker. overlap must be smaller than size, so
// every chunk after the first starts size-overlap characters after the
// previous chunk's start.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidChunking, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must not be negative", ErrInvalidChunking, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", ErrInvalidChunking, overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split cuts pageText into chunks of at most size characters, each chunk
// after the first overlapping the previous one by exactly overlap
// characters. Characters are counted as runes so multi-byte text chunks
// at the same boundaries as ASCII. Empty or whitespace-only input yields
// no chunks.
func (c *Chunker) Split(pageText string) []string {
	if strings.TrimSpace(pageText) == "" {
		return nil
	}

	runes := []rune(pageText)
	stride := c.size - c.overlap

	var chunks []string
	for start := 0; start < len(runes); start += stride {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// Size reports the configured chunk size in characters.
func (c *Chunker) Size() int { return c.size }

// Overlap reports the configured overlap in characters.
func (c *Chunker) Overlap() int { return c.overlap }
