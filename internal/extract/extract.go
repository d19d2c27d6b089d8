// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns PDF bytes into a single plain-text string.
// Page order is preserved and every page's text is followed by a newline.
// Within a page, glyphs sharing a baseline form one line, read top-down.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pageSource abstracts a parsed document so the concatenation rules can be
// tested without building PDF fixtures.
type pageSource interface {
	NumPage() int
	PageText(num int) (string, error)
}

// ledongthucSource is the production pageSource backed by ledongthuc/pdf.
type ledongthucSource struct {
	r *pdf.Reader
}

func (s *ledongthucSource) NumPage() int { return s.r.NumPage() }

func (s *ledongthucSource) PageText(num int) (string, error) {
	p := s.r.Page(num)
	if p.V.IsNull() {
		return "", fmt.Errorf("page %d has no page object", num)
	}
	return linesFromGlyphs(p.Content().Text), nil
}

// PDFExtractor reads the text layer of a PDF held in memory. It keeps no
// state between calls and is safe for concurrent use.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF text extractor.
func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

// ExtractText returns the concatenated text of every page in data. It fails
// with a *DocumentParseError when data is not a readable PDF, when any page
// fails to extract, or when the document has no text layer at all.
func (e *PDFExtractor) ExtractText(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", parseError("empty document", nil)
	}

	// ledongthuc/pdf panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = parseError("malformed document", fmt.Errorf("%v", r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", parseError("not a readable PDF", err)
	}
	return concatPages(&ledongthucSource{r: r})
}

// concatPages joins the text of every page, each followed by "\n". A failure
// on any page fails the whole document.
func concatPages(src pageSource) (string, error) {
	n := src.NumPage()
	if n == 0 {
		return "", parseError("document has no pages", nil)
	}

	var b strings.Builder
	for i := 1; i <= n; i++ {
		t, err := src.PageText(i)
		if err != nil {
			return "", parseError(fmt.Sprintf("extracting page %d", i), err)
		}
		b.WriteString(t)
		b.WriteByte('\n')
	}

	text := b.String()
	if strings.TrimSpace(text) == "" {
		return "", parseError("no extractable text layer", nil)
	}
	return text, nil
}
