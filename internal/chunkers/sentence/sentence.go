// Package sentence splits document text into sentence-sized chunks.
//
// A chunk boundary is a run of stop symbols ('.', '?', '!'), optionally
// followed by closing quotes or brackets, then whitespace and an
// uppercase letter. False boundaries produced by titles, latin
// abbreviations and initials are merged back into the preceding chunk.
package sentence

import "strings"

// Closing punctuation that may trail a sentence terminator.
const closers = `"')]`

// Quote and bracket characters stripped from the left segment before
// inspecting its last token.
const trailingQuotes = `"')]}` + "›»”’"

// Chunker splits text on sentence boundaries.
type Chunker struct {
	stopSymbols map[byte]bool

	// Titles and latin abbreviations never end a sentence.
	alwaysMergeAfter map[string]bool

	// Corporate suffixes often continue but can end a sentence. Merge
	// only when the next segment starts lowercase.
	conditionalMergeAfter map[string]bool
}

// New returns a sentence chunker with the default heuristics.
func New() *Chunker {
	return &Chunker{
		stopSymbols: map[byte]bool{'.': true, '?': true, '!': true},
		alwaysMergeAfter: toSet(
			"Mr.", "Mrs.", "Ms.", "Mx.", "Dr.", "Prof.", "Sr.", "Jr.",
			"i.e.", "e.g.", "etc.",
		),
		conditionalMergeAfter: toSet("Inc.", "Ltd.", "Co.", "No.", "St.", "Dept."),
	}
}

// Name returns the chunker name recorded on processed documents.
func (c *Chunker) Name() string {
	return "sentence"
}

// Chunk splits text into an ordered list of sentences.
func (c *Chunker) Chunk(text string) []string {
	if text == "" {
		return nil
	}

	var segments []string
	emit := func(seg string) {
		if seg = strings.TrimSpace(seg); seg != "" {
			segments = append(segments, seg)
		}
	}

	start := 0
	i := 0
	for i < len(text) {
		if !c.stopSymbols[text[i]] {
			i++
			continue
		}
		j := i
		for j < len(text) && c.stopSymbols[text[j]] {
			j++
		}
		for j < len(text) && strings.IndexByte(closers, text[j]) >= 0 {
			j++
		}
		k := j
		for k < len(text) && isSpace(text[k]) {
			k++
		}
		// Boundary only when whitespace separates the terminator from
		// an uppercase sentence opener.
		if k > j && k < len(text) && text[k] >= 'A' && text[k] <= 'Z' {
			emit(text[start:j])
			start = k
			i = k
			continue
		}
		i = j
	}
	emit(text[start:])

	var result []string
	for _, seg := range segments {
		if len(result) > 0 && c.shouldMerge(result[len(result)-1], seg) {
			result[len(result)-1] += " " + seg
		} else {
			result = append(result, seg)
		}
	}
	return result
}

// shouldMerge reports whether right belongs to the sentence ending left,
// i.e. the boundary after left was a false split.
func (c *Chunker) shouldMerge(left, right string) bool {
	if right == "" {
		return false
	}

	leftClean := strings.TrimRight(strings.TrimRight(left, " \t\r\n"), trailingQuotes)
	tok := lastToken(leftClean)

	if c.alwaysMergeAfter[tok] {
		return true
	}
	if c.conditionalMergeAfter[tok] {
		r := strings.TrimSpace(right)
		return r != "" && r[0] >= 'a' && r[0] <= 'z'
	}

	// Initials like "A." in "A. B. Smith".
	if n := len(leftClean); n >= 2 && leftClean[n-1] == '.' &&
		leftClean[n-2] >= 'A' && leftClean[n-2] <= 'Z' &&
		(n == 2 || !isWordByte(leftClean[n-3])) {
		return true
	}
	return false
}

func lastToken(s string) string {
	end := len(s)
	for end > 0 && isSpace(s[end-1]) {
		end--
	}
	start := end
	for start > 0 && !isSpace(s[start-1]) {
		start--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

func toSet(items ...string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
