// Package markers parses plain-text layouts with inline page-break
// markers, as produced by OCR backends that annotate page boundaries
// with HTML comments in the extracted text.
package markers

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
)

// Name is the reader tag recorded on chunks aligned against this layout.
const Name = "markers"

// PageBreak is the marker a new page starts at.
const PageBreak = "<!-- PageBreak -->"

// annotationPattern matches the page-number and header/footer
// annotations that may follow a page break. They describe the layout
// rather than belonging to the text, so they are stripped before the
// budget walk counts characters.
var annotationPattern = regexp.MustCompile(`<!-- Page(Number|Header|Footer)[^>]*-->`)

// Ensure Parser implements the interface.
var _ driven.LayoutParser = (*Parser)(nil)

// Parser splits marker-annotated text into page segments.
type Parser struct{}

// New creates a marker layout parser.
func New() *Parser {
	return &Parser{}
}

// Name returns the reader tag.
func (p *Parser) Name() string {
	return Name
}

// Pages produces the ordered page segments by splitting the text
// immediately before each page-break marker. Blank pages are dropped.
func (p *Parser) Pages(raw []byte) ([]string, error) {
	text := annotationPattern.ReplaceAllString(string(raw), "")

	var pages []string
	for _, segment := range strings.Split(text, PageBreak) {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		pages = append(pages, segment)
	}
	return pages, nil
}
