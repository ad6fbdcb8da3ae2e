package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_EmptyInput(t *testing.T) {
	require.Nil(t, Split("", Options{}))
	require.Nil(t, Split("   \n\t  ", Options{}))
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	chunks := Split("Hello world.", Options{})
	require.Len(t, chunks, 1)
	require.Equal(t, "Hello world.", chunks[0].Content)
	require.Equal(t, 0, chunks[0].Index)
}

func TestSplit_NormalizesWhitespace(t *testing.T) {
	chunks := Split("alpha\n\nbeta\t gamma", Options{})
	require.Len(t, chunks, 1)
	require.Equal(t, "alpha beta gamma", chunks[0].Content)
}

func TestSplit_BoundsAndContiguousIndexes(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 300))
	chunks := Split(text, Options{})
	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		require.Equal(t, i, chunk.Index)
		require.LessOrEqual(t, len([]rune(chunk.Content)), DefaultSize+DefaultLookahead)
		require.NotEmpty(t, chunk.Content)
	}
}

func TestSplit_AdjacentChunksOverlap(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 300))
	chunks := Split(text, Options{})
	require.Greater(t, len(chunks), 1)
	for i := 0; i < len(chunks)-1; i++ {
		head := []rune(chunks[i+1].Content)
		if len(head) > 30 {
			head = head[:30]
		}
		require.Contains(t, chunks[i].Content, string(head))
	}
}

func TestSplit_PrefersSentenceBoundaries(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString(fmt.Sprintf("Sentence number %02d sits right here. ", i))
	}
	chunks := Split(sb.String(), Options{})
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks[:len(chunks)-1] {
		last := chunk.Content[len(chunk.Content)-1]
		require.Contains(t, ".!?", string(last))
	}
}

func TestSplit_SmallTailAbsorbedIntoFinalChunk(t *testing.T) {
	text := strings.Repeat("x", DefaultSize+30)
	chunks := Split(text, Options{})
	require.Len(t, chunks, 1)
	require.Equal(t, DefaultSize+30, len([]rune(chunks[0].Content)))
}

func TestSplit_CoversWholeDocument(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 60; i++ {
		sb.WriteString(fmt.Sprintf("Fact %02d stays findable after chunking. ", i))
	}
	text := strings.TrimSpace(sb.String())
	chunks := Split(text, Options{})
	joined := ""
	for _, chunk := range chunks {
		joined += chunk.Content + " "
	}
	for i := 0; i < 60; i++ {
		require.Contains(t, joined, fmt.Sprintf("Fact %02d", i))
	}
}
