package rag

import "strings"

// AssembleContext concatenates the content of the first topK ranked
// candidates into one context block, joined by ContextSeparator.
// Candidates with empty content are dropped. The boolean is false when
// nothing usable remains — the explicit "no usable context" signal,
// distinct from a present-but-short context — and the generator must
// then short-circuit to the no-information answer.
func AssembleContext(ranked []Candidate, topK int) (string, bool) {
	if topK <= 0 {
		return "", false
	}
	if topK > len(ranked) {
		topK = len(ranked)
	}

	parts := make([]string, 0, topK)
	for _, c := range ranked[:topK] {
		if c.Content == "" {
			continue
		}
		parts = append(parts, c.Content)
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ContextSeparator), true
}
