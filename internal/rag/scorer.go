package rag

import (
	"math"
	"regexp"
	"strings"
)

// PairScorer assigns a relevance score to each (query, text) pair.
// Scoring is synchronous, CPU-bound local inference; the Reranker is
// responsible for keeping it off the request path. Implementations must
// be deterministic for identical inputs and safe for concurrent use.
type PairScorer interface {
	ScorePairs(query string, texts []string) ([]float64, error)
}

var wordPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// LexicalScorer scores pairs by the Ochiai coefficient of their token
// sets: |Q∩T| / sqrt(|Q|·|T|). It is a cheap stand-in for a
// cross-encoder model with the same contract; deployments with a model
// server substitute their own PairScorer.
type LexicalScorer struct{}

// ScorePairs scores each text against the query. A missing or empty
// text scores zero rather than failing.
func (LexicalScorer) ScorePairs(query string, texts []string) ([]float64, error) {
	queryTokens := tokenSet(query)

	scores := make([]float64, len(texts))
	for i, text := range texts {
		scores[i] = ochiai(queryTokens, tokenSet(text))
	}
	return scores, nil
}

func tokenSet(s string) map[string]struct{} {
	tokens := wordPattern.FindAllString(strings.ToLower(s), -1)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func ochiai(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}
	return float64(intersection) / math.Sqrt(float64(len(a))*float64(len(b)))
}
