package service

import (
	"strings"
	"unicode"

	"github.com/hanbat-ai/hanbatbot/internal/domain"
)

// ChunkConfig configures how documents are split into overlapping windows.
// Sizes and offsets are measured in runes, not bytes; the corpus is Korean.
type ChunkConfig struct {
	Size    int
	Overlap int
}

// DefaultChunkConfig returns the chunk parameters the retrieval quality was
// tuned with.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{Size: 250, Overlap: 100}
}

// ChunkDocuments splits each document into overlapping windows, preferring
// paragraph and sentence boundaries over hard cuts, and records the rune
// offset of every chunk within its source document.
func ChunkDocuments(docs []domain.Document, cfg ChunkConfig) []domain.Chunk {
	var chunks []domain.Chunk
	for _, doc := range docs {
		chunks = append(chunks, chunkDocument(doc, cfg)...)
	}
	return chunks
}

func chunkDocument(doc domain.Document, cfg ChunkConfig) []domain.Chunk {
	if cfg.Size <= 0 {
		cfg.Size = 250
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.Size {
		cfg.Overlap = cfg.Size / 2
	}

	runes := []rune(doc.Text)
	var chunks []domain.Chunk

	start := 0
	for start < len(runes) {
		// Skip leading whitespace so offsets point at visible text
		for start < len(runes) && unicode.IsSpace(runes[start]) {
			start++
		}
		if start >= len(runes) {
			break
		}

		end := start + cfg.Size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = splitPoint(runes, start, end)
		}

		text := strings.TrimRightFunc(string(runes[start:end]), unicode.IsSpace)
		if text != "" {
			chunks = append(chunks, domain.Chunk{
				Source:      doc.Source,
				Text:        text,
				StartOffset: start,
			})
		}

		if end >= len(runes) {
			break
		}

		next := end - cfg.Overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// splitPoint moves the window end back to the best natural boundary inside
// its second half: paragraph break first, then sentence end, then any
// whitespace. Without one the window is cut hard at the size limit.
func splitPoint(runes []rune, start, end int) int {
	floor := start + (end-start)/2

	for i := end - 1; i > floor; i-- {
		if runes[i] == '\n' && i > 0 && runes[i-1] == '\n' {
			return i + 1
		}
	}
	for i := end - 1; i > floor; i-- {
		if isSentenceEnd(runes[i]) {
			return i + 1
		}
	}
	for i := end - 1; i > floor; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	return r == '。' || r == '！' || r == '？' || r == '.' || r == '!' || r == '?'
}
