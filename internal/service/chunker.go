package service

import (
	"regexp"
	"strings"

	"github.com/quizcraft/backend/internal/apperr"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

var sentencePattern = regexp.MustCompile(`[^.!?]*[.!?]+\s*`)

// DocumentChunker splits document text into bounded, sentence-aligned
// segments. Splits happen on sentence boundaries where possible; only a
// single sentence longer than the chunk size is cut mid-sentence.
type DocumentChunker struct {
	chunkSize    int
	chunkOverlap int
}

func NewDocumentChunker(chunkSize, chunkOverlap int) *DocumentChunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
	}
	return &DocumentChunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Chunk returns the ordered segments of text. Empty or whitespace-only input
// is a fatal precondition failure for ingestion.
func (c *DocumentChunker) Chunk(text string) ([]string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, apperr.New(apperr.KindNoChunksGenerated, "no valid chunks generated from document text")
	}

	sentences := splitSentences(trimmed)

	var chunks []string
	var current strings.Builder
	var overlapLen int // leading bytes of current carried over from the previous chunk

	flush := func() {
		chunk := current.String()
		chunks = append(chunks, chunk)
		current.Reset()
		overlapLen = 0
		for _, s := range c.tailWithinOverlap(chunk) {
			current.WriteString(s)
			overlapLen += len(s)
		}
	}

	for _, sentence := range sentences {
		for _, piece := range c.hardSplit(sentence) {
			// Only flush when current holds text beyond the carried overlap;
			// an overlap-only flush would emit a duplicate of the previous
			// chunk's tail.
			if current.Len() > overlapLen && current.Len()+len(piece) > c.chunkSize {
				flush()
			}
			// Overlap alone may already be near the limit; drop it rather
			// than exceed the chunk size.
			if current.Len()+len(piece) > c.chunkSize {
				current.Reset()
				overlapLen = 0
			}
			current.WriteString(piece)
		}
	}
	if current.Len() > overlapLen {
		chunks = append(chunks, current.String())
	}

	if len(chunks) == 0 {
		return nil, apperr.New(apperr.KindNoChunksGenerated, "no valid chunks generated from document text")
	}
	return chunks, nil
}

// tailWithinOverlap picks whole trailing sentences of chunk totaling at most
// the configured overlap.
func (c *DocumentChunker) tailWithinOverlap(chunk string) []string {
	if c.chunkOverlap == 0 {
		return nil
	}
	sentences := splitSentences(chunk)
	total := 0
	start := len(sentences)
	for i := len(sentences) - 1; i >= 0; i-- {
		if total+len(sentences[i]) > c.chunkOverlap {
			break
		}
		total += len(sentences[i])
		start = i
	}
	return sentences[start:]
}

// hardSplit cuts a single oversized sentence into chunk-size pieces.
func (c *DocumentChunker) hardSplit(sentence string) []string {
	if len(sentence) <= c.chunkSize {
		return []string{sentence}
	}
	var pieces []string
	for len(sentence) > c.chunkSize {
		pieces = append(pieces, sentence[:c.chunkSize])
		sentence = sentence[c.chunkSize:]
	}
	if sentence != "" {
		pieces = append(pieces, sentence)
	}
	return pieces
}

// splitSentences covers the whole input: concatenating the returned parts
// reproduces text exactly, delimiters and trailing whitespace included.
func splitSentences(text string) []string {
	locs := sentencePattern.FindAllStringIndex(text, -1)
	var parts []string
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			parts = append(parts, text[last:loc[0]])
		}
		parts = append(parts, text[loc[0]:loc[1]])
		last = loc[1]
	}
	if last < len(text) {
		parts = append(parts, text[last:])
	}
	return parts
}
