package rag

import (
	"math"
	"testing"
)

func TestLexicalScorerScorePairs(t *testing.T) {
	scorer := LexicalScorer{}

	tests := []struct {
		name  string
		query string
		texts []string
		want  []float64
	}{
		{
			name:  "identical token sets score one",
			query: "gram sabha meeting",
			texts: []string{"meeting gram sabha"},
			want:  []float64{1.0},
		},
		{
			name:  "disjoint token sets score zero",
			query: "water supply",
			texts: []string{"road construction budget"},
			want:  []float64{0},
		},
		{
			name:  "empty text scores zero",
			query: "water supply",
			texts: []string{""},
			want:  []float64{0},
		},
		{
			name:  "case insensitive",
			query: "Gram Sabha",
			texts: []string{"GRAM SABHA"},
			want:  []float64{1.0},
		},
		{
			name:  "partial overlap",
			query: "gram sabha", // 2 tokens
			texts: []string{"gram panchayat office records herein sits gram staff"}, // 7 distinct tokens, 1 shared
			want:  []float64{1.0 / math.Sqrt(2.0*7.0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scorer.ScorePairs(tt.query, tt.texts)
			if err != nil {
				t.Fatalf("ScorePairs: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d scores, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("score %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLexicalScorerOrdering(t *testing.T) {
	scorer := LexicalScorer{}

	query := "when is the gram sabha meeting"
	texts := []string{
		"the gram sabha meeting is scheduled for the last week of march",
		"road repair tenders were opened on monday",
	}

	scores, err := scorer.ScorePairs(query, texts)
	if err != nil {
		t.Fatalf("ScorePairs: %v", err)
	}
	if scores[0] <= scores[1] {
		t.Errorf("relevant text scored %v, irrelevant %v; want relevant higher", scores[0], scores[1])
	}
}

func TestLexicalScorerDeterministic(t *testing.T) {
	scorer := LexicalScorer{}

	query := "property tax rates"
	texts := []string{"tax rates for residential property", "library opening hours"}

	first, err := scorer.ScorePairs(query, texts)
	if err != nil {
		t.Fatalf("ScorePairs: %v", err)
	}
	second, err := scorer.ScorePairs(query, texts)
	if err != nil {
		t.Fatalf("ScorePairs: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("score %d differs between runs: %v vs %v", i, first[i], second[i])
		}
	}
}
