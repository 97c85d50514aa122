package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runeCodec treats every rune as one token, which makes window and overlap
// sizes directly observable in the output strings.
type runeCodec struct{}

func (runeCodec) Encode(text string) []int {
	runes := []rune(text)
	tokens := make([]int, len(runes))
	for i, r := range runes {
		tokens[i] = int(r)
	}
	return tokens
}

func (runeCodec) Decode(tokens []int) string {
	runes := make([]rune, len(tokens))
	for i, tok := range tokens {
		runes[i] = rune(tok)
	}
	return string(runes)
}

func testChunker(t *testing.T, window, overlap int) *Chunker {
	t.Helper()
	c, err := NewChunkerWithCodec(window, overlap, runeCodec{})
	require.NoError(t, err)
	return c
}

func TestSplitWindowAndOverlap(t *testing.T) {
	c := testChunker(t, 8, 4)
	text := strings.Repeat("abcd", 10) // 40 tokens

	chunks := c.Split(text)
	// ceil((40-overlap)/step) windows for step = window-overlap
	require.Len(t, chunks, 9)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 8, "chunk %d exceeds the window", i)
	}
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		assert.Equal(t, prev[len(prev)-4:], cur[:4], "chunks %d and %d must overlap by 4 tokens", i-1, i)
	}
}

func TestSplitReconstructsText(t *testing.T) {
	c := testChunker(t, 10, 4)
	text := "the quick brown fox jumps over the lazy dog again"

	chunks := c.Split(text)
	require.NotEmpty(t, chunks)

	// First chunk plus the non-overlapping tail of each later chunk
	// rebuilds the original text.
	var b strings.Builder
	b.WriteString(chunks[0])
	for _, chunk := range chunks[1:] {
		b.WriteString(chunk[4:])
	}
	assert.Equal(t, text, b.String())
}

func TestSplitDeterministic(t *testing.T) {
	c := testChunker(t, 16, 8)
	text := strings.Repeat("deterministic chunking ", 20)

	first := c.Split(text)
	second := c.Split(text)
	assert.Equal(t, first, second)
}

func TestSplitShortText(t *testing.T) {
	c := testChunker(t, 100, 40)

	chunks := c.Split("tiny")
	require.Len(t, chunks, 1)
	assert.Equal(t, "tiny", chunks[0])
}

func TestSplitEmptyText(t *testing.T) {
	c := testChunker(t, 8, 4)
	assert.Empty(t, c.Split(""))
	assert.Empty(t, c.Split("   \n\t "))
}

func TestSplitExactWindow(t *testing.T) {
	c := testChunker(t, 8, 4)

	// Exactly one window: no zero-length trailing chunk.
	chunks := c.Split("abcdefgh")
	require.Len(t, chunks, 1)
	assert.Equal(t, "abcdefgh", chunks[0])
}

func TestSplitSegmentsConcatenates(t *testing.T) {
	c := testChunker(t, 8, 4)

	segments := []string{strings.Repeat("x", 12), "", strings.Repeat("y", 5)}
	chunks := c.SplitSegments(segments)

	// 12 tokens at window 8 / step 4 -> 2 chunks, plus 1 for the y segment.
	require.Len(t, chunks, 3)
	assert.Equal(t, strings.Repeat("y", 5), chunks[2])
	for _, chunk := range chunks[:2] {
		assert.NotContains(t, chunk, "y", "segments must be chunked independently")
	}
}

func TestNewChunkerRejectsBadSizes(t *testing.T) {
	_, err := NewChunkerWithCodec(0, 0, runeCodec{})
	assert.Error(t, err)

	_, err = NewChunkerWithCodec(10, 10, runeCodec{})
	assert.Error(t, err)

	_, err = NewChunkerWithCodec(10, -1, runeCodec{})
	assert.Error(t, err)
}
