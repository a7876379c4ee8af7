package domain

import "strings"

// PageElement is one discrete content element of a structured layout,
// as produced by layout-analysis backends that tag every element with
// the page it was found on.
type PageElement struct {
	// Text is the element's plain text.
	Text string

	// TextLevel is the heading level; 0 means body text.
	TextLevel int

	// PageIndex is the 0-based page the element was found on.
	PageIndex int
}

// RebuildPages reconstructs per-page text from an ordered element list.
// Elements are concatenated in order, separated by blank lines, with
// headings rendered as Markdown-style prefixes (level N produces N
// leading '#' characters). A new page starts whenever PageIndex changes
// between consecutive elements; pages that rebuild to blank are dropped.
func RebuildPages(elements []PageElement) []string {
	var pages []string
	var current strings.Builder

	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			pages = append(pages, current.String())
		}
		current.Reset()
	}

	for i, el := range elements {
		if i > 0 && el.PageIndex != elements[i-1].PageIndex {
			flush()
		}
		if strings.TrimSpace(el.Text) == "" {
			continue
		}
		current.WriteString("\n\n")
		if el.TextLevel > 0 {
			current.WriteString(strings.Repeat("#", el.TextLevel))
			current.WriteString(" ")
		}
		current.WriteString(el.Text)
	}
	flush()

	return pages
}
