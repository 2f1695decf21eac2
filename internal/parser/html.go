package parser

import (
	"bytes"
	"fmt"
	"net/url"

	readability "github.com/go-shiori/go-readability"
)

// HTMLParser extracts readable article text from HTML documents using
// go-readability, dropping navigation and boilerplate. HTML has no
// physical pages, so the extracted text is a single page 1.
type HTMLParser struct{}

// Parse extracts the document's readable text.
func (HTMLParser) Parse(sourceName string, data []byte) ([]Page, error) {
	// readability resolves relative links against the page URL; the
	// documents here are local files, so a placeholder origin is enough.
	pageURL := &url.URL{Scheme: "file", Path: "/" + sourceName}

	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return nil, fmt.Errorf("extracting readable text from %s: %w", sourceName, err)
	}

	return []Page{{
		SourceName: sourceName,
		Number:     1,
		Text:       article.TextContent,
	}}, nil
}
