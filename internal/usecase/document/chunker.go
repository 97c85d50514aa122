package document

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCodec is the tokenizer seam used by the chunker. Production uses
// tiktoken; tests substitute a trivial codec.
type TokenCodec interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type tiktokenCodec struct {
	tok *tiktoken.Tiktoken
}

func (c tiktokenCodec) Encode(text string) []int {
	return c.tok.Encode(text, nil, nil)
}

func (c tiktokenCodec) Decode(tokens []int) string {
	return c.tok.Decode(tokens)
}

// Chunker splits text into overlapping token windows. Consecutive windows
// share `overlap` tokens so content near a boundary appears in both; the
// stride between window starts is window-overlap.
type Chunker struct {
	window  int
	overlap int
	codec   TokenCodec
}

// NewChunker creates a chunker over the cl100k_base encoding.
func NewChunker(window, overlap int) (*Chunker, error) {
	tok, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load token encoder: %w", err)
	}
	return NewChunkerWithCodec(window, overlap, tiktokenCodec{tok: tok})
}

// NewChunkerWithCodec creates a chunker over an explicit tokenizer.
func NewChunkerWithCodec(window, overlap int, codec TokenCodec) (*Chunker, error) {
	if window <= 0 {
		return nil, fmt.Errorf("chunk window must be positive, got %d", window)
	}
	if overlap < 0 || overlap >= window {
		return nil, fmt.Errorf("chunk overlap must be in [0, window), got %d", overlap)
	}
	return &Chunker{window: window, overlap: overlap, codec: codec}, nil
}

// Split partitions text into token windows in document order. The last
// window may be shorter than the budget. Identical input yields an
// identical sequence.
func (c *Chunker) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	tokens := c.codec.Encode(text)
	step := c.window - c.overlap

	var chunks []string
	for start := 0; start < len(tokens); start += step {
		end := start + c.window
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, c.codec.Decode(tokens[start:end]))
		if end == len(tokens) {
			break
		}
	}
	return chunks
}

// SplitSegments chunks each pre-segmented piece of a document independently
// and concatenates the sequences. Index renumbering across segments happens
// in the enricher.
func (c *Chunker) SplitSegments(segments []string) []string {
	var chunks []string
	for _, seg := range segments {
		chunks = append(chunks, c.Split(seg)...)
	}
	return chunks
}
