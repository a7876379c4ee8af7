// Package structured parses the element-list layout produced by
// layout-analysis backends: a JSON array of content elements, each
// tagged with the page it was found on and an optional heading level.
package structured

import (
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
)

// Name is the reader tag recorded on chunks aligned against this layout.
const Name = "structured"

// Ensure Parser implements the interface.
var _ driven.LayoutParser = (*Parser)(nil)

// Parser rebuilds per-page text from a structured content-element list.
type Parser struct{}

// New creates a structured layout parser.
func New() *Parser {
	return &Parser{}
}

// Name returns the reader tag.
func (p *Parser) Name() string {
	return Name
}

// element is the wire format of one content element. text_level and
// page_idx follow the backend's JSON field names; a null text_level
// means body text.
type element struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	TextLevel *int   `json:"text_level"`
	PageIndex int    `json:"page_idx"`
}

// Pages produces the ordered page segments of the document.
func (p *Parser) Pages(raw []byte) ([]string, error) {
	var elements []element
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("parsing structured layout: %w", err)
	}

	pageElements := make([]domain.PageElement, 0, len(elements))
	for _, el := range elements {
		if el.Type != "" && el.Type != "text" {
			continue
		}
		pe := domain.PageElement{
			Text:      el.Text,
			PageIndex: el.PageIndex,
		}
		if el.TextLevel != nil {
			pe.TextLevel = *el.TextLevel
		}
		pageElements = append(pageElements, pe)
	}

	return domain.RebuildPages(pageElements), nil
}
