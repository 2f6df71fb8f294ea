package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/docqa/docqa-mcp/pkg/types"
)

const (
	// DefaultChunkSize is the target maximum chunk length in characters.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the number of trailing characters of a chunk
	// repeated at the start of the next chunk.
	DefaultChunkOverlap = 200
)

// separators in decreasing structural priority: paragraph breaks, line
// breaks, sentence ends, whitespace, then raw characters as a last resort.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter divides plain text into overlapping chunks bounded by a target
// size, preferring natural boundaries. A Splitter is pure: Split has no side
// effects and depends only on its input.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

// New creates a Splitter. chunkSize must be positive and chunkOverlap must
// satisfy 0 <= chunkOverlap < chunkSize.
func New(chunkSize, chunkOverlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", types.ErrChunkConfig, chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", types.ErrChunkConfig, chunkSize, chunkOverlap)
	}
	return &Splitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}, nil
}

// Split returns the ordered chunks of text. Empty or whitespace-only text
// yields no chunks; text no longer than the chunk size yields a single chunk
// equal to the input. Otherwise every chunk is at most chunkSize characters
// and each chunk begins with the trailing chunkOverlap characters of its
// predecessor.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{text}
	}
	return s.merge(decompose(text, separators, s.unitLimit()))
}

// ChunkDocument splits a document's text and tags each chunk with the
// document name for provenance.
func (s *Splitter) ChunkDocument(doc types.Document) []types.Chunk {
	pieces := s.Split(doc.Text)
	chunks := make([]types.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = types.Chunk{Source: doc.Name, Ordinal: i, Content: piece}
	}
	return chunks
}

// unitLimit bounds individual structural units so that a chunk seeded with
// overlap carry can always absorb one more unit without exceeding chunkSize.
func (s *Splitter) unitLimit() int {
	return s.chunkSize - s.chunkOverlap
}

// decompose breaks text into ordered units no longer than limit, splitting on
// the highest-priority separator present and recursing with lower-priority
// separators for oversized pieces. Units keep their separators attached, so
// their concatenation reproduces text exactly.
func decompose(text string, seps []string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	sep := ""
	var rest []string
	for i, cand := range seps {
		if cand == "" {
			break
		}
		if strings.Contains(text, cand) {
			sep = cand
			rest = seps[i+1:]
			break
		}
	}

	if sep == "" {
		// No structural boundary left: hard windows of at most limit
		// bytes, never cutting a rune in half.
		units := make([]string, 0, len(text)/limit+1)
		start := 0
		for start < len(text) {
			end := start + limit
			if end >= len(text) {
				end = len(text)
			} else {
				for end > start && !utf8.RuneStart(text[end]) {
					end--
				}
				if end == start {
					// A single rune wider than the limit.
					_, n := utf8.DecodeRuneInString(text[start:])
					end = start + n
				}
			}
			units = append(units, text[start:end])
			start = end
		}
		return units
	}

	var units []string
	for _, piece := range strings.SplitAfter(text, sep) {
		if piece == "" {
			continue
		}
		if len(piece) <= limit {
			units = append(units, piece)
			continue
		}
		units = append(units, decompose(piece, rest, limit)...)
	}
	return units
}

// merge greedily packs units into chunks up to chunkSize. When a chunk is
// emitted, its trailing chunkOverlap bytes, shrunk to the nearest rune
// boundary, seed the next chunk so no semantic unit spanning a boundary is
// lost to either side.
func (s *Splitter) merge(units []string) []string {
	var chunks []string
	cur := ""
	for _, u := range units {
		if cur != "" && len(cur)+len(u) > s.chunkSize {
			chunks = append(chunks, cur)
			carry := len(cur) - s.chunkOverlap
			for carry < len(cur) && !utf8.RuneStart(cur[carry]) {
				carry++
			}
			cur = cur[carry:]
		}
		cur += u
	}
	if cur != "" {
		chunks = append(chunks, cur)
	}
	return chunks
}
