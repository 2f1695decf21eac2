package rag

import (
	"errors"
	"strings"
	"testing"
)

func TestNewChunkerValidation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{name: "valid", size: 1000, overlap: 100, wantErr: false},
		{name: "zero overlap", size: 100, overlap: 0, wantErr: false},
		{name: "zero size", size: 0, overlap: 0, wantErr: true},
		{name: "negative size", size: -1, overlap: 0, wantErr: true},
		{name: "negative overlap", size: 100, overlap: -1, wantErr: true},
		{name: "overlap equals size", size: 100, overlap: 100, wantErr: true},
		{name: "overlap exceeds size", size: 100, overlap: 150, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChunker(tt.size, tt.overlap)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewChunker(%d, %d) error = %v, wantErr %v", tt.size, tt.overlap, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidChunking) {
				t.Errorf("error %v is not ErrInvalidChunking", err)
			}
		})
	}
}

func TestSplitOffsets(t *testing.T) {
	chunker, err := NewChunker(1000, 100)
	if err != nil {
		t.Fatalf("NewChunker: %v", err)
	}

	text := strings.Repeat("a", 2500)
	chunks := chunker.Split(text)

	if len(chunks) != 3 {
		t.Fatalf("Split returned %d chunks, want 3", len(chunks))
	}
	// Starts advance by size-overlap: 0, 900, 1800.
	wantLens := []int{1000, 1000, 700}
	for i, chunk := range chunks {
		if len(chunk) != wantLens[i] {
			t.Errorf("chunk %d length = %d, want %d", i, len(chunk), wantLens[i])
		}
	}
}

func TestSplitOverlapEquality(t *testing.T) {
	chunker, err := NewChunker(1000, 100)
	if err != nil {
		t.Fatalf("NewChunker: %v", err)
	}

	// Position-dependent content so matching substrings prove matching
	// offsets.
	var b strings.Builder
	for b.Len() < 2500 {
		b.WriteString("0123456789abcdefghijklmnopqrstuvwxyz")
	}
	text := b.String()[:2500]

	chunks := chunker.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("Split returned %d chunks, want at least 2", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		tail := chunks[i-1][len(chunks[i-1])-100:]
		head := chunks[i][:100]
		if tail != head {
			t.Errorf("chunk %d: last 100 chars of previous != first 100 chars", i)
		}
	}
}

func TestSplitRuneBoundaries(t *testing.T) {
	chunker, err := NewChunker(10, 2)
	if err != nil {
		t.Fatalf("NewChunker: %v", err)
	}

	// 25 multi-byte runes must chunk at the same boundaries as 25 ASCII
	// characters.
	text := strings.Repeat("ग", 25)
	chunks := chunker.Split(text)

	if len(chunks) != 4 {
		t.Fatalf("Split returned %d chunks, want 4", len(chunks))
	}
	wantRunes := []int{10, 10, 10, 1}
	for i, chunk := range chunks {
		if n := len([]rune(chunk)); n != wantRunes[i] {
			t.Errorf("chunk %d rune count = %d, want %d", i, n, wantRunes[i])
		}
	}
}

func TestSplitEmptyInput(t *testing.T) {
	chunker, err := NewChunker(1000, 100)
	if err != nil {
		t.Fatalf("NewChunker: %v", err)
	}

	for _, text := range []string{"", "   ", "\n\t\n"} {
		if chunks := chunker.Split(text); chunks != nil {
			t.Errorf("Split(%q) = %v, want nil", text, chunks)
		}
	}
}

func TestSplitShortInput(t *testing.T) {
	chunker, err := NewChunker(1000, 100)
	if err != nil {
		t.Fatalf("NewChunker: %v", err)
	}

	chunks := chunker.Split("short text")
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Errorf("Split = %v, want one chunk with the full text", chunks)
	}
}

func TestSplitDeterministic(t *testing.T) {
	chunker, err := NewChunker(50, 10)
	if err != nil {
		t.Fatalf("NewChunker: %v", err)
	}

	text := strings.Repeat("panchayat records ", 20)
	first := chunker.Split(text)
	second := chunker.Split(text)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}
