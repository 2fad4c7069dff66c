package services

import (
	"strings"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText packs whole lines into chunks of at most maxChunkSize runes. Each chunk
// after the first starts with the last overlap runes of the previous one. Lines longer
// than maxChunkSize are cut.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap*2 > maxChunkSize {
		overlap = maxChunkSize / 4
	}
	pieceSize := maxChunkSize - overlap - 1
	if pieceSize < 1 {
		pieceSize = 1
	}

	var chunks []string
	var current []rune

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, string(current))
		tail := len(current) - overlap
		if tail < 0 {
			tail = 0
		}
		current = append([]rune(nil), current[tail:]...)
	}

	for _, line := range strings.Split(CleanText(text), "\n") {
		for _, piece := range splitRunes([]rune(line), pieceSize) {
			if len(current) > 0 && len(current)+1+len(piece) > maxChunkSize {
				flush()
			}
			if len(current) > 0 {
				current = append(current, '\n')
			}
			current = append(current, piece...)
		}
	}

	if len(current) > 0 && (len(chunks) == 0 || len(current) > overlap) {
		chunks = append(chunks, string(current))
	}
	return chunks
}

func splitRunes(r []rune, size int) [][]rune {
	if len(r) == 0 {
		return nil
	}
	var out [][]rune
	for len(r) > size {
		out = append(out, r[:size])
		r = r[size:]
	}
	return append(out, r)
}
