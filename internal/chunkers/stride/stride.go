// Package stride provides a fixed-window chunker that slices text into
// chunkSize-character windows advanced by a constant stride. Windows
// overlap when the stride is smaller than the chunk size.
package stride

// Chunker slices text into fixed windows.
type Chunker struct {
	chunkSize int
	stride    int
}

// New returns a fixed-window chunker. The stride must be positive and
// the chunk size must be at least the stride for full coverage.
func New(chunkSize, stride int) *Chunker {
	return &Chunker{chunkSize: chunkSize, stride: stride}
}

// Name returns the chunker name recorded on processed documents.
func (c *Chunker) Name() string {
	return "stride"
}

// Chunk slices text into windows. Offsets count characters, not bytes,
// so multi-byte runes are never split.
func (c *Chunker) Chunk(text string) []string {
	if text == "" || c.stride <= 0 || c.chunkSize <= 0 {
		return nil
	}

	runes := []rune(text)
	var chunks []string
	for i := 0; i < len(runes); i += c.stride {
		end := i + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
