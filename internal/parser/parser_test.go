package parser

import (
	"errors"
	"testing"
)

func TestTextParserSinglePage(t *testing.T) {
	pages, err := TextParser{}.Parse("notice.txt", []byte("hello world"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
	if pages[0].Number != 1 || pages[0].Text != "hello world" {
		t.Errorf("page = %+v", pages[0])
	}
}

func TestTextParserFormFeedPages(t *testing.T) {
	pages, err := TextParser{}.Parse("report.txt", []byte("page one\fpage two\f\fpage four"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(pages) != 4 {
		t.Fatalf("got %d pages, want 4", len(pages))
	}

	// Physical page numbers count blanks too.
	want := []struct {
		number int
		text   string
	}{
		{1, "page one"},
		{2, "page two"},
		{3, ""},
		{4, "page four"},
	}
	for i, w := range want {
		if pages[i].Number != w.number || pages[i].Text != w.text {
			t.Errorf("page %d = {%d, %q}, want {%d, %q}", i, pages[i].Number, pages[i].Text, w.number, w.text)
		}
		if pages[i].SourceName != "report.txt" {
			t.Errorf("page %d source = %q", i, pages[i].SourceName)
		}
	}
}

func TestRegistrySupported(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		want bool
	}{
		{"notice.txt", true},
		{"readme.md", true},
		{"page.html", true},
		{"page.htm", true},
		{"NOTICE.TXT", true},
		{"scan.pdf", false},
		{"archive.zip", false},
		{"noextension", false},
	}
	for _, tt := range tests {
		if got := r.Supported(tt.name); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRegistryParseUnsupported(t *testing.T) {
	r := NewRegistry()
	_, err := r.Parse("scan.pdf", []byte("%PDF"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Parse error = %v, want ErrUnsupportedType", err)
	}
}

func TestRegistryRegisterCustomParser(t *testing.T) {
	r := NewRegistry()
	r.Register(".csv", TextParser{})

	if !r.Supported("data.csv") {
		t.Fatal("registered extension not supported")
	}
	pages, err := r.Parse("data.csv", []byte("a,b,c"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(pages) != 1 || pages[0].Text != "a,b,c" {
		t.Errorf("pages = %+v", pages)
	}
}
