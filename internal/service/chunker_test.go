package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbat-ai/hanbatbot/internal/domain"
)

func TestChunkDocumentsEmpty(t *testing.T) {
	assert.Empty(t, ChunkDocuments(nil, DefaultChunkConfig()))
	assert.Empty(t, ChunkDocuments([]domain.Document{{Source: "a.txt", Text: ""}}, DefaultChunkConfig()))
	assert.Empty(t, ChunkDocuments([]domain.Document{{Source: "a.txt", Text: "   \n\n  "}}, DefaultChunkConfig()))
}

func TestChunkDocumentsShort(t *testing.T) {
	doc := domain.Document{Source: "학칙.txt", Text: "제1조 이 학칙은 교육 목적을 달성하기 위한 사항을 규정한다."}

	chunks := ChunkDocuments([]domain.Document{doc}, DefaultChunkConfig())
	require.Len(t, chunks, 1)
	assert.Equal(t, doc.Text, chunks[0].Text)
	assert.Equal(t, "학칙.txt", chunks[0].Source)
	assert.Zero(t, chunks[0].StartOffset)
}

func TestChunkDocumentsWindowSize(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 80; i++ {
		sb.WriteString("장학금은 직전 학기 성적과 이수 학점을 기준으로 선발한다. ")
	}
	doc := domain.Document{Source: "장학금.txt", Text: sb.String()}

	cfg := ChunkConfig{Size: 250, Overlap: 100}
	chunks := ChunkDocuments([]domain.Document{doc}, cfg)
	require.Greater(t, len(chunks), 1)

	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Text)), cfg.Size)
		assert.NotEmpty(t, c.Text)
	}
}

func TestChunkDocumentsOffsets(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 60; i++ {
		sb.WriteString("학생생활관 입주자는 관리운영 지침을 준수하여야 한다.\n")
	}
	doc := domain.Document{Source: "생활관.txt", Text: sb.String()}
	docRunes := []rune(doc.Text)

	chunks := ChunkDocuments([]domain.Document{doc}, ChunkConfig{Size: 200, Overlap: 80})
	require.NotEmpty(t, chunks)

	// Every offset is in runes and points at the chunk's first character
	for _, c := range chunks {
		require.Less(t, c.StartOffset, len(docRunes))
		assert.True(t, strings.HasPrefix(string(docRunes[c.StartOffset:]), c.Text),
			"chunk text must appear at its recorded offset")
	}
}

func TestChunkDocumentsOverlapAndProgress(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		sb.WriteString("무선인터넷 접속 장애 시 정보화본부에 문의한다. ")
	}
	doc := domain.Document{Source: "와이파이.txt", Text: sb.String()}

	cfg := ChunkConfig{Size: 250, Overlap: 100}
	chunks := ChunkDocuments([]domain.Document{doc}, cfg)
	require.Greater(t, len(chunks), 2)

	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		assert.Greater(t, cur.StartOffset, prev.StartOffset, "windows must advance")
		// Consecutive windows share text: the next one starts before the
		// previous one ends
		prevEnd := prev.StartOffset + len([]rune(prev.Text))
		assert.Less(t, cur.StartOffset, prevEnd, "windows must overlap")
	}
}

func TestChunkDocumentsPrefersParagraphBreak(t *testing.T) {
	para := strings.Repeat("가", 120)
	doc := domain.Document{Source: "a.txt", Text: para + "\n\n" + para + "\n\n" + para}

	chunks := ChunkDocuments([]domain.Document{doc}, ChunkConfig{Size: 200, Overlap: 50})
	require.Greater(t, len(chunks), 1)

	// The first window fits one full paragraph and cuts at the break instead
	// of mid-paragraph
	assert.Equal(t, para, chunks[0].Text)
}

func TestChunkDocumentsMultipleSources(t *testing.T) {
	docs := []domain.Document{
		{Source: "a.txt", Text: "첫 번째 문서."},
		{Source: "b.txt", Text: "두 번째 문서."},
	}

	chunks := ChunkDocuments(docs, DefaultChunkConfig())
	require.Len(t, chunks, 2)
	assert.Equal(t, "a.txt", chunks[0].Source)
	assert.Equal(t, "b.txt", chunks[1].Source)
}
