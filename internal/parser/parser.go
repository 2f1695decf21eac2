// Package parser extracts per-page text from raw document bytes. It is
// the document-parser collaborator consumed by the ingestion pipeline:
// the pipeline sees only pages, never file formats.
package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType indicates no parser is registered for a file type.
var ErrUnsupportedType = errors.New("unsupported document type")

// Page is one physical page of a document's extracted text.
type Page struct {
	SourceName string
	Number     int
	Text       string
}

// Parser extracts pages from one document format.
type Parser interface {
	Parse(sourceName string, data []byte) ([]Page, error)
}

// Registry dispatches documents to a Parser by file extension.
type Registry struct {
	byExt map[string]Parser
}

// NewRegistry creates a Registry with the default parsers: plain text
// for .txt and .md, readability extraction for .html and .htm.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Parser)}
	text := TextParser{}
	r.Register(".txt", text)
	r.Register(".md", text)
	html := HTMLParser{}
	r.Register(".html", html)
	r.Register(".htm", html)
	return r
}

// Register binds a parser to a file extension (with leading dot,
// matched case-insensitively).
func (r *Registry) Register(ext string, p Parser) {
	r.byExt[strings.ToLower(ext)] = p
}

// Supported reports whether a parser is registered for the file's
// extension.
func (r *Registry) Supported(sourceName string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(sourceName))]
	return ok
}

// Parse extracts pages from the document using the parser registered
// for its extension.
func (r *Registry) Parse(sourceName string, data []byte) ([]Page, error) {
	p, ok := r.byExt[strings.ToLower(filepath.Ext(sourceName))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(sourceName))
	}
	return p.Parse(sourceName, data)
}

// TextParser treats the input as UTF-8 text. Form feeds mark page
// boundaries — the convention used by pdftotext and friends — so
// pre-extracted PDF text ingests with accurate page numbers. A file
// without form feeds is a single page.
type TextParser struct{}

// Parse splits the text into pages on form-feed characters. Page
// numbers count physical pages, including blank ones, starting at 1.
func (TextParser) Parse(sourceName string, data []byte) ([]Page, error) {
	var pages []Page
	for i, text := range strings.Split(string(data), "\f") {
		pages = append(pages, Page{
			SourceName: sourceName,
			Number:     i + 1,
			Text:       text,
		})
	}
	return pages, nil
}
