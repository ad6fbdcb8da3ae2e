package chunker

import (
	"regexp"
	"strings"
)

// Chunk is a bounded slice of a source document sized for embedding.
// Index values are contiguous starting at 0 over kept chunks.
type Chunk struct {
	Content string
	Index   int
}

type Options struct {
	Size      int
	Overlap   int
	Lookahead int
}

const (
	DefaultSize      = 500
	DefaultOverlap   = 50
	DefaultLookahead = 50
)

var spaceRe = regexp.MustCompile(`\s+`)

// Split cuts text into overlapping, sentence-aligned windows. Whitespace is
// normalized before measuring, lengths are in runes. Adjacent chunks share
// an Overlap-sized boundary region so context survives embedding boundaries.
func Split(text string, opts Options) []Chunk {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Overlap <= 0 {
		opts.Overlap = DefaultOverlap
	}
	if opts.Lookahead <= 0 {
		opts.Lookahead = DefaultLookahead
	}
	clean := []rune(spaceRe.ReplaceAllString(strings.TrimSpace(text), " "))
	if len(clean) == 0 {
		return nil
	}
	if len(clean) <= opts.Size {
		return []Chunk{{Content: string(clean), Index: 0}}
	}

	var chunks []Chunk
	idx := 0
	start := 0
	for start < len(clean) {
		end := start + opts.Size
		switch {
		case end >= len(clean):
			end = len(clean)
		case len(clean)-end < opts.Overlap:
			// The tail past this window is smaller than the overlap region;
			// absorb it here rather than emit a near-duplicate final window.
			end = len(clean)
		default:
			if cut := sentenceCut(clean, start, end, opts); cut > 0 {
				end = cut
			}
		}
		piece := strings.TrimSpace(string(clean[start:end]))
		if piece != "" {
			chunks = append(chunks, Chunk{Content: piece, Index: idx})
			idx++
		}
		if end >= len(clean) {
			break
		}
		next := end - opts.Overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// sentenceCut searches backward from the window end (plus lookahead) for the
// nearest sentence terminator, and cuts there unless the resulting chunk
// would fall under half the window size.
func sentenceCut(text []rune, start, end int, opts Options) int {
	limit := end + opts.Lookahead
	if limit > len(text) {
		limit = len(text)
	}
	floor := start + opts.Size/2
	for i := limit - 1; i >= floor; i-- {
		if !isTerminator(text[i]) {
			continue
		}
		if i+1 >= len(text) || text[i+1] == ' ' || text[i+1] == '\n' {
			return i + 1
		}
	}
	return 0
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
