package rag

import (
	"strings"
	"testing"
)

func TestAssembleContext(t *testing.T) {
	tests := []struct {
		name     string
		contents []string
		topK     int
		want     string
		wantOK   bool
	}{
		{
			name:     "joins top k with separator",
			contents: []string{"one", "two", "three"},
			topK:     2,
			want:     "one" + ContextSeparator + "two",
			wantOK:   true,
		},
		{
			name:     "top k larger than candidates",
			contents: []string{"one", "two"},
			topK:     5,
			want:     "one" + ContextSeparator + "two",
			wantOK:   true,
		},
		{
			name:     "drops empty content",
			contents: []string{"one", "", "three"},
			topK:     3,
			want:     "one" + ContextSeparator + "three",
			wantOK:   true,
		},
		{
			name:     "all empty content",
			contents: []string{"", ""},
			topK:     2,
			want:     "",
			wantOK:   false,
		},
		{
			name:     "no candidates",
			contents: nil,
			topK:     5,
			want:     "",
			wantOK:   false,
		},
		{
			name:     "zero top k",
			contents: []string{"one"},
			topK:     0,
			want:     "",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AssembleContext(candidatesFromContents(tt.contents...), tt.topK)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("AssembleContext = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAssembleContextTruncatesToTopK(t *testing.T) {
	candidates := candidatesFromContents("a", "b", "c", "d", "e", "f", "g")
	got, ok := AssembleContext(candidates, 5)
	if !ok {
		t.Fatal("AssembleContext returned not ok")
	}
	if n := len(strings.Split(got, ContextSeparator)); n != 5 {
		t.Errorf("context has %d parts, want 5", n)
	}
}
